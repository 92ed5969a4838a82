package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/prayz/internal/settings"
	"github.com/abhisek/prayz/internal/stats"
)

const (
	sessionSettingsKey = "session"
	statsRowID         = 1
)

// settingsRepo stores settings.Settings as JSON under sessionSettingsKey.
type settingsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *settingsRepo) Load(ctx context.Context) (settings.Settings, error) {
	s := settings.Default()
	query, args := builder.Select("value").
		From(builder.Table(tableSettings)).
		Where(entsql.EQ("key", sessionSettingsKey)).
		Query()
	var raw string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("query settings: %w", err)
	}
	// Unmarshal over the defaults so fields added later keep their default.
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return settings.Default(), fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) Save(ctx context.Context, s settings.Settings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	query, args := builder.Insert(tableSettings).
		Columns("key", "value", "updated_at").
		Values(sessionSettingsKey, string(b), r.now().UTC()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// statsRepo stores stats.Counters as a single JSON row.
type statsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *statsRepo) Load(ctx context.Context) (stats.Counters, error) {
	query, args := builder.Select("data").
		From(builder.Table(tablePrayerStats)).
		Where(entsql.EQ("id", statsRowID)).
		Query()
	var raw string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Counters{}, nil
	}
	if err != nil {
		return stats.Counters{}, fmt.Errorf("query prayer stats: %w", err)
	}
	var c stats.Counters
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return stats.Counters{}, fmt.Errorf("decode prayer stats: %w", err)
	}
	return c, nil
}

func (r *statsRepo) Save(ctx context.Context, c stats.Counters) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode prayer stats: %w", err)
	}
	query, args := builder.Insert(tablePrayerStats).
		Columns("id", "data", "updated_at").
		Values(statsRowID, string(b), r.now().UTC()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save prayer stats: %w", err)
	}
	return nil
}
