// Package leaderboard accepts finished-game scores, serves the top of the
// table and pushes new qualifying entries to live subscribers. Storage and
// fan-out are pluggable: SQLite with an in-process feed for a single host,
// or Redis for both when several servers share one board.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	goaway "github.com/TwiN/go-away"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	// MaxNameLength bounds player names, in runes.
	MaxNameLength = 15
	// DefaultLimit is the table size used when callers pass a non-positive limit.
	DefaultLimit = 100
)

var (
	ErrInvalidName  = errors.New("leaderboard: invalid name")
	ErrInvalidScore = errors.New("leaderboard: score must not be negative")
	ErrNoFeed       = errors.New("leaderboard: no live feed configured")
)

// Entry is one stored score.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists entries.
type Repository interface {
	Insert(ctx context.Context, e Entry) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// Feed fans new entries out to subscribers. Subscribe's channel is closed
// once ctx is done.
type Feed interface {
	Publish(ctx context.Context, e Entry) error
	Subscribe(ctx context.Context) (<-chan Entry, error)
}

// Service is the leaderboard API used by the game front ends.
type Service struct {
	repo   Repository
	feed   Feed
	logger *log.Logger
	now    func() time.Time
	topN   int
}

// NewService wires a repository and an optional feed.
func NewService(repo Repository, feed Feed, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{
		repo:   repo,
		feed:   feed,
		logger: logger,
		now:    time.Now,
		topN:   DefaultLimit,
	}
}

// SanitizeName trims a player name, checks its length and masks profanity.
func SanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxNameLength {
		return "", fmt.Errorf("%w: must be 1-%d characters", ErrInvalidName, MaxNameLength)
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return "", fmt.Errorf("%w: contains unprintable characters", ErrInvalidName)
		}
	}
	if goaway.IsProfane(name) {
		name = goaway.Censor(name)
	}
	return name, nil
}

// Submit stores a score and announces it on the feed. A feed failure is
// logged, not returned: the entry is already stored.
func (s *Service) Submit(ctx context.Context, name string, score int) (Entry, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return Entry{}, err
	}
	if score < 0 {
		return Entry{}, fmt.Errorf("%w: %d", ErrInvalidScore, score)
	}

	e := Entry{
		ID:        uuid.NewString(),
		Name:      clean,
		Score:     score,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return Entry{}, fmt.Errorf("leaderboard: submit: %w", err)
	}
	s.logger.Info("score submitted", "name", e.Name, "score", e.Score, "id", e.ID)

	if s.feed != nil {
		if err := s.feed.Publish(ctx, e); err != nil {
			s.logger.Warn("publish failed", "id", e.ID, "err", err)
		}
	}
	return e, nil
}

// Top returns up to limit entries, best first.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	entries, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: top: %w", err)
	}
	return entries, nil
}

// Subscribe streams entries that make the top of the table as they arrive.
// The channel closes when ctx is done.
func (s *Service) Subscribe(ctx context.Context) (<-chan Entry, error) {
	if s.feed == nil {
		return nil, ErrNoFeed
	}
	in, err := s.feed.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: subscribe: %w", err)
	}

	out := make(chan Entry, cap(in))
	go func() {
		defer close(out)
		for e := range in {
			if !s.qualifies(ctx, e) {
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// qualifies reports whether e sits inside the top table. Lookup errors let
// the entry through.
func (s *Service) qualifies(ctx context.Context, e Entry) bool {
	top, err := s.repo.Top(ctx, s.topN)
	if err != nil {
		s.logger.Debug("qualify lookup failed", "err", err)
		return true
	}
	if len(top) < s.topN {
		return true
	}
	return e.Score >= top[len(top)-1].Score
}
