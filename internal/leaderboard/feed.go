package leaderboard

import (
	"context"
	"sync"
)

const feedBuffer = 16

// LocalFeed is an in-process Feed. Slow subscribers miss entries rather
// than block publishers.
type LocalFeed struct {
	mu   sync.Mutex
	subs map[chan Entry]struct{}
}

// NewLocalFeed creates an empty feed.
func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[chan Entry]struct{})}
}

// Publish implements Feed.
func (f *LocalFeed) Publish(_ context.Context, e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

// Subscribe implements Feed.
func (f *LocalFeed) Subscribe(ctx context.Context) (<-chan Entry, error) {
	ch := make(chan Entry, feedBuffer)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch, nil
}

// Subscribers reports the number of live subscriptions.
func (f *LocalFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
