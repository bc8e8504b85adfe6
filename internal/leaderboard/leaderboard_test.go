package leaderboard

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

type memRepo struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (m *memRepo) Insert(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memRepo) Top(_ context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]Entry(nil), m.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"  Ada  ", "Ada", false},
		{"", "", true},
		{"   ", "", true},
		{strings.Repeat("x", 15), strings.Repeat("x", 15), false},
		{strings.Repeat("x", 16), "", true},
		{"ünïcødé", "ünïcødé", false},
		{"tab\tname", "", true},
	}
	for _, tc := range tests {
		got, err := SanitizeName(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("SanitizeName(%q) err = %v, want ErrInvalidName", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("SanitizeName(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestSanitizeNameCensors(t *testing.T) {
	got, err := SanitizeName("fuck")
	if err != nil {
		t.Fatalf("SanitizeName: %v", err)
	}
	if got == "fuck" {
		t.Error("profanity passed through")
	}
}

func TestSubmitAndTop(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC) }
	ctx := context.Background()

	for _, s := range []struct {
		name  string
		score int
	}{{"low", 100}, {"high", 9000}, {"mid", 4000}} {
		e, err := svc.Submit(ctx, s.name, s.score)
		if err != nil {
			t.Fatalf("Submit(%s): %v", s.name, err)
		}
		if e.ID == "" {
			t.Error("entry has no ID")
		}
		if e.CreatedAt.Nanosecond() != 0 {
			t.Error("timestamp not truncated to seconds")
		}
	}

	top, err := svc.Top(ctx, 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 || top[0].Name != "high" || top[1].Name != "mid" {
		t.Errorf("top = %+v", top)
	}
}

func TestSubmitRejects(t *testing.T) {
	svc := NewService(&memRepo{}, nil, nil)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "neg", -1); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("negative score err = %v", err)
	}
	if _, err := svc.Submit(ctx, "", 10); !errors.Is(err, ErrInvalidName) {
		t.Errorf("empty name err = %v", err)
	}

	broken := NewService(&memRepo{err: errors.New("disk full")}, nil, nil)
	if _, err := broken.Submit(ctx, "ok", 10); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("repository error not surfaced: %v", err)
	}
}

func TestSubscribeLocalFeed(t *testing.T) {
	feed := NewLocalFeed()
	svc := NewService(&memRepo{}, feed, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if _, err := svc.Submit(context.Background(), "live", 1234); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case e := <-ch:
		if e.Name != "live" || e.Score != 1234 {
			t.Errorf("pushed entry = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no entry pushed")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// drain a possible buffered value, then expect close
			if _, ok := <-ch; ok {
				t.Error("channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestSubscribeFiltersNonQualifying(t *testing.T) {
	repo := &memRepo{}
	feed := NewLocalFeed()
	svc := NewService(repo, feed, nil)
	svc.topN = 2
	ctx := context.Background()

	svc.Submit(ctx, "a", 5000)
	svc.Submit(ctx, "b", 4000)

	sub, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := svc.Subscribe(sub)
	if err != nil {
		t.Fatal(err)
	}

	svc.Submit(ctx, "loser", 10)
	svc.Submit(ctx, "winner", 4500)

	select {
	case e := <-ch:
		if e.Name != "winner" {
			t.Errorf("got %q, want only the qualifying entry", e.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("qualifying entry not pushed")
	}
}

func TestSubscribeWithoutFeed(t *testing.T) {
	svc := NewService(&memRepo{}, nil, nil)
	if _, err := svc.Subscribe(context.Background()); !errors.Is(err, ErrNoFeed) {
		t.Errorf("err = %v, want ErrNoFeed", err)
	}
}

func TestLocalFeedUnsubscribes(t *testing.T) {
	feed := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := feed.Subscribe(ctx); err != nil {
		t.Fatal(err)
	}
	if feed.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", feed.Subscribers())
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for feed.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber not removed after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := feed.Publish(context.Background(), Entry{ID: "x"}); err != nil {
		t.Errorf("publish with no subscribers: %v", err)
	}
}
