package scrape

import (
	"context"
	"time"
)

// Session is the rendered-page capability consumed by the pipeline. It is a
// scoped resource: one session per query, released via Close on every exit
// path.
type Session interface {
	Navigate(url string) error
	WaitVisible(selector string) error
	HTML() (string, error)
	ElementCount(selector string) (int, error)
	PageHeight() (int, error)
	ScrollToBottom() error
	Close()
}

// SessionProvider acquires rendering sessions. The concrete implementation
// lives in app/browser; tests substitute fakes.
type SessionProvider interface {
	Acquire(ctx context.Context) (Session, error)
}

// CacheStore is the key-value surface used by the cache gate. A miss and an
// unreachable store are indistinguishable to the pipeline.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

// PageDriver is the slice of Session the paginator needs.
type PageDriver interface {
	ElementCount(selector string) (int, error)
	PageHeight() (int, error)
	ScrollToBottom() error
}
