package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence number stamped on
// every session event. Sequence numbers survive event deletion, so history
// ordering never depends on row ids.
//
// Uses raw SQL because the builder has no atomic counter. The mutex
// serializes within the process; the RETURNING clause makes the increment
// atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder.Insert(tableSessionEvents).
		Columns("sequence", "timestamp", "session_id", "action", "list_id",
			"item_count", "duration_secs", "prayed_count", "answered_count").
		Values(seqNum, r.now().UTC(), data.SessionID, data.Action, data.ListID,
			data.ItemCount, data.DurationSecs, data.PrayedCount, data.AnsweredCount).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	s := builder.Select("session_id", "sequence", "timestamp", "list_id", "item_count",
		"duration_secs", "prayed_count", "answered_count").
		From(builder.Table(tableSessionEvents)).
		Where(entsql.EQ("action", ActionEnd)).
		OrderBy(entsql.Desc("sequence"))
	if opts.After > 0 {
		s.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		s.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		s.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		s.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}

	query, args := s.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var records []SessionSummaryRecord
	for rows.Next() {
		var rec SessionSummaryRecord
		if err := rows.Scan(&rec.SessionID, &rec.Sequence, &rec.Timestamp, &rec.ListID, &rec.ItemCount,
			&rec.DurationSecs, &rec.PrayedCount, &rec.AnsweredCount); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) DeleteAll(ctx context.Context) error {
	query, args := builder.Delete(tableSessionEvents).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete session events: %w", err)
	}
	return nil
}
