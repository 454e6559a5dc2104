package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/skobkin/fynetip/internal/events"
)

func openTestDB(t *testing.T) *VisibilityRepo {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewVisibilityRepo(db)
}

func TestVisibilityRepoListRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	base := time.Now().UTC().Truncate(time.Millisecond)
	fixtures := []events.TooltipVisibility{
		{TooltipID: "a", Name: "hover", Visible: true, Timestamp: base},
		{TooltipID: "a", Name: "hover", Visible: false, Timestamp: base.Add(time.Second)},
		{TooltipID: "b", Visible: true, Timestamp: base.Add(2 * time.Second)},
	}
	for _, ev := range fixtures {
		if err := repo.Insert(ctx, ev); err != nil {
			t.Fatalf("insert event: %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].TooltipID != "b" || got[0].Name != "" || !got[0].Visible {
		t.Fatalf("unexpected newest event: %+v", got[0])
	}
	if got[1].TooltipID != "a" || got[1].Name != "hover" || got[1].Visible {
		t.Fatalf("unexpected second event: %+v", got[1])
	}
	if !got[1].Timestamp.Equal(base.Add(time.Second)) {
		t.Fatalf("timestamp must round-trip at millisecond precision, got %v", got[1].Timestamp)
	}

	none, err := repo.ListRecent(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no events for zero limit, got %v (%v)", none, err)
	}
}

func TestVisibilityRepoPrune(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	base := time.Now()
	for i := range 5 {
		if err := repo.Insert(ctx, events.TooltipVisibility{
			TooltipID: "t",
			Visible:   i%2 == 0,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("insert event %d: %v", i, err)
		}
	}

	removed, err := repo.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed events, got %d", removed)
	}

	left, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(left) != 2 || !left[0].Visible || left[1].Visible {
		t.Fatalf("expected the two newest events to survive, got %+v", left)
	}
}

func TestClearJournal(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	if err := repo.Insert(ctx, events.TooltipVisibility{TooltipID: "t", Timestamp: time.Now()}); err != nil {
		t.Fatalf("insert event: %v", err)
	}
	if err := ClearJournal(ctx, repo.db); err != nil {
		t.Fatalf("clear journal: %v", err)
	}

	left, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected empty journal, got %d events", len(left))
	}
	if err := ClearJournal(ctx, nil); err == nil {
		t.Fatalf("expected error for nil database")
	}
}

func TestOpenSetsSchemaVersion(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	_ = db.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	var version int
	if err := reopened.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != schemaVersion {
		t.Fatalf("expected schema version %d, got %d", schemaVersion, version)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA user_version = 99;`); err != nil {
		t.Fatalf("bump user_version: %v", err)
	}
	_ = db.Close()

	if _, err := Open(ctx, path); err == nil {
		t.Fatalf("expected newer schema to be rejected")
	}
}
