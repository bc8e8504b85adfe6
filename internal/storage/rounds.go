package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Round outcomes as stored in the rounds table.
const (
	OutcomeComplete = "complete"
	OutcomeBust     = "bust"
	OutcomeTimeout  = "timeout"
)

// RoundRecord is the result of one played round.
type RoundRecord struct {
	ID          int64
	Round       int
	Outcome     string
	Score       int
	BudgetLeft  int
	TimeLeftMs  int
	SlotsFilled int
	CreatedAt   time.Time
}

// RoundStats aggregates every recorded play of one round number.
type RoundStats struct {
	Round      int
	Plays      int
	Completed  int
	Busts      int
	Timeouts   int
	BestScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// CompletionRate is the share of plays that filled every slot.
func (r RoundStats) CompletionRate() float64 {
	if r.Plays == 0 {
		return 0
	}
	return float64(r.Completed) / float64(r.Plays)
}

// SaveRound records a round result and returns its row ID.
func (s *Store) SaveRound(ctx context.Context, rec RoundRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (round, outcome, score, budget_left, time_left_ms, slots_filled)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Round, rec.Outcome, rec.Score, rec.BudgetLeft, rec.TimeLeftMs, rec.SlotsFilled,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save round: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRounds returns the latest round records, newest first.
func (s *Store) RecentRounds(ctx context.Context, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, round, outcome, score, budget_left, time_left_ms, slots_filled, created_at
		 FROM rounds
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		var r RoundRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Round, &r.Outcome, &r.Score, &r.BudgetLeft, &r.TimeLeftMs, &r.SlotsFilled, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// RoundStatsByRound aggregates the rounds table per round number.
func (s *Store) RoundStatsByRound(ctx context.Context) ([]RoundStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round,
		        COUNT(*),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        MAX(score),
		        AVG(score),
		        MAX(created_at)
		 FROM rounds
		 GROUP BY round
		 ORDER BY round`,
		OutcomeComplete, OutcomeBust, OutcomeTimeout,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get round stats: %w", err)
	}
	defer rows.Close()

	var stats []RoundStats
	for rows.Next() {
		var st RoundStats
		var lastPlayed any
		if err := rows.Scan(&st.Round, &st.Plays, &st.Completed, &st.Busts, &st.Timeouts, &st.BestScore, &st.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// RoundStatsFor returns the aggregate for one round; plays is zero when it was never played.
func (s *Store) RoundStatsFor(ctx context.Context, round int) (RoundStats, error) {
	st := RoundStats{Round: round}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)
		 FROM rounds WHERE round = ?`,
		round,
	).Scan(&st.Plays, &st.BestScore, &st.AvgScore)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return st, fmt.Errorf("storage: cannot get round stats: %w", err)
	}
	return st, nil
}
