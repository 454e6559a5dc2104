package persistence

import (
	"context"
	"database/sql"
	"fmt"
)

// ClearJournal removes every recorded event.
func ClearJournal(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("journal database is not initialized")
	}

	//goland:noinspection SqlWithoutWhere
	if _, err := db.ExecContext(ctx, `DELETE FROM visibility_events;`); err != nil {
		return fmt.Errorf("clear visibility events: %w", err)
	}

	return nil
}
