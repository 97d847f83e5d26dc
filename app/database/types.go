package database

import "time"

// Search is one recorded pipeline run, success or failure.
type Search struct {
	ID         int64
	Source     string // youtube or instagram
	Keyword    string
	MaxResults int
	Total      int
	Success    bool
	FromCache  bool
	DurationMs int64
	Error      string
	CreatedAt  time.Time
}

// SourceCounts aggregates run totals per source.
type SourceCounts struct {
	Source    string
	Runs      int64
	Succeeded int64
	CacheHits int64
}
