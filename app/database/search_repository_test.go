package database

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestRecordAndRecent(t *testing.T) {
	repo := NewSearchRepository(testDB(t))

	runs := []Search{
		{Source: "youtube", Keyword: "golang", MaxResults: 10, Total: 10, Success: true, DurationMs: 4200},
		{Source: "youtube", Keyword: "golang", MaxResults: 10, Total: 10, Success: true, FromCache: true, DurationMs: 3},
		{Source: "instagram", Keyword: "sunset", MaxResults: 5, Success: false, Error: "browser launch failed", DurationMs: 3100},
	}
	for _, run := range runs {
		if err := repo.Record(run); err != nil {
			t.Fatalf("Failed to record run: %v", err)
		}
	}

	recent, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(recent))
	}

	// Newest first.
	if recent[0].Source != "instagram" || recent[0].Success {
		t.Errorf("Expected the failed instagram run first, got %+v", recent[0])
	}
	if recent[0].Error != "browser launch failed" {
		t.Errorf("Expected failure message persisted, got %q", recent[0].Error)
	}
	if !recent[1].FromCache {
		t.Errorf("Expected cache-hit flag persisted, got %+v", recent[1])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("Expected created_at to be populated")
	}
}

func TestCounts(t *testing.T) {
	repo := NewSearchRepository(testDB(t))

	for _, run := range []Search{
		{Source: "youtube", Keyword: "a", MaxResults: 10, Total: 10, Success: true},
		{Source: "youtube", Keyword: "a", MaxResults: 10, Total: 10, Success: true, FromCache: true},
		{Source: "youtube", Keyword: "b", MaxResults: 10, Success: false, Error: "timeout"},
		{Source: "instagram", Keyword: "c", MaxResults: 5, Total: 5, Success: true},
	} {
		if err := repo.Record(run); err != nil {
			t.Fatalf("Failed to record run: %v", err)
		}
	}

	counts, err := repo.Counts()
	if err != nil {
		t.Fatalf("Failed to read counts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Expected counts for 2 sources, got %d", len(counts))
	}

	// Ordered by source: instagram, youtube.
	if counts[0].Source != "instagram" || counts[0].Runs != 1 || counts[0].Succeeded != 1 {
		t.Errorf("Unexpected instagram counts: %+v", counts[0])
	}
	if counts[1].Source != "youtube" || counts[1].Runs != 3 || counts[1].Succeeded != 2 || counts[1].CacheHits != 1 {
		t.Errorf("Unexpected youtube counts: %+v", counts[1])
	}
}

func TestRecentOnEmptyHistory(t *testing.T) {
	repo := NewSearchRepository(testDB(t))

	recent, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("Failed to read empty history: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Expected empty history, got %d rows", len(recent))
	}
}
