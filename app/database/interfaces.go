package database

// SearchRepository persists and reads back pipeline run history.
type SearchRepository interface {
	Record(search Search) error
	Recent(limit int) ([]Search, error)
	Counts() ([]SourceCounts, error)
}

var _ SearchRepository = (*SearchRepo)(nil)
