package core

// RuntimeConfig carries the host-side settings a front end hands to the simulation.
type RuntimeConfig struct {
	ScreenW  int   // terminal width in characters
	ScreenH  int   // terminal height in characters
	TickRate int   // simulation ticks per second
	Seed     int64 // 0 means seed from the clock
}

// DefaultConfig returns an 80x24 terminal at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}
