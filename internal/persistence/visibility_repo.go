package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/skobkin/fynetip/internal/events"
)

// VisibilityRepo stores tooltip visibility changes in SQLite.
type VisibilityRepo struct {
	db *sql.DB
}

func NewVisibilityRepo(db *sql.DB) *VisibilityRepo {
	return &VisibilityRepo{db: db}
}

func (r *VisibilityRepo) Insert(ctx context.Context, ev events.TooltipVisibility) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visibility_events(tooltip_id, name, visible, at)
		VALUES(?, ?, ?, ?)
	`, ev.TooltipID, nullableString(ev.Name), boolToInt(ev.Visible), toUnixMillis(ev.Timestamp))
	if err != nil {
		return fmt.Errorf("insert visibility event: %w", err)
	}

	return nil
}

// ListRecent returns up to limit events, newest first.
func (r *VisibilityRepo) ListRecent(ctx context.Context, limit int) ([]events.TooltipVisibility, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT tooltip_id, name, visible, at
		FROM visibility_events
		ORDER BY at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list visibility events: %w", err)
	}
	defer rows.Close()

	out := make([]events.TooltipVisibility, 0, limit)
	for rows.Next() {
		var (
			ev      events.TooltipVisibility
			name    sql.NullString
			visible int
			atMs    int64
		)
		if err := rows.Scan(&ev.TooltipID, &name, &visible, &atMs); err != nil {
			return nil, fmt.Errorf("scan visibility event: %w", err)
		}
		ev.Name = name.String
		ev.Visible = visible != 0
		ev.Timestamp = fromUnixMillis(atMs)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visibility events: %w", err)
	}

	return out, nil
}

// Prune keeps the newest keep events and returns how many were removed.
func (r *VisibilityRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM visibility_events
		WHERE id NOT IN (
			SELECT id FROM visibility_events
			ORDER BY at DESC, id DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune visibility events: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned visibility events: %w", err)
	}

	return removed, nil
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}

	return v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}

	return 0
}

func toUnixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

func fromUnixMillis(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}

	return time.UnixMilli(v)
}
