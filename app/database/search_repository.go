package database

import (
	"fmt"
)

// SearchRepo handles database operations for search history.
type SearchRepo struct {
	db *DB
}

func NewSearchRepository(db *DB) *SearchRepo {
	return &SearchRepo{db: db}
}

// Record inserts one run. Failed runs are recorded too; the error column
// keeps the failure message.
func (r *SearchRepo) Record(search Search) error {
	_, err := r.db.Exec(`
		INSERT INTO searches (source, keyword, max_results, total, success, from_cache, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, search.Source, search.Keyword, search.MaxResults, search.Total,
		search.Success, search.FromCache, search.DurationMs, search.Error)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	return nil
}

// Recent returns the latest runs, newest first.
func (r *SearchRepo) Recent(limit int) ([]Search, error) {
	rows, err := r.db.Query(`
		SELECT id, source, keyword, max_results, total, success, from_cache, duration_ms, error, created_at
		FROM searches
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var searches []Search
	for rows.Next() {
		var s Search
		if err := rows.Scan(&s.ID, &s.Source, &s.Keyword, &s.MaxResults, &s.Total,
			&s.Success, &s.FromCache, &s.DurationMs, &s.Error, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		searches = append(searches, s)
	}

	return searches, rows.Err()
}

// Counts aggregates run totals per source.
func (r *SearchRepo) Counts() ([]SourceCounts, error) {
	rows, err := r.db.Query(`
		SELECT source,
		       COUNT(*),
		       SUM(CASE WHEN success THEN 1 ELSE 0 END),
		       SUM(CASE WHEN from_cache THEN 1 ELSE 0 END)
		FROM searches
		GROUP BY source
		ORDER BY source
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query search counts: %w", err)
	}
	defer rows.Close()

	var counts []SourceCounts
	for rows.Next() {
		var c SourceCounts
		if err := rows.Scan(&c.Source, &c.Runs, &c.Succeeded, &c.CacheHits); err != nil {
			return nil, fmt.Errorf("failed to scan counts row: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
