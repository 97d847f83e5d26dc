package scrape

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"tubescout/app/cache"
	"tubescout/app/cfg"
)

const (
	SourceYouTube   = "youtube"
	SourceInstagram = "instagram"

	resultsURL    = "https://www.youtube.com/results?search_query="
	tagURL        = "https://www.instagram.com/explore/tags/"
	titleSelector = "#video-title"
)

// Pipeline runs the full extraction-normalization-enrichment flow for one
// query: cache gate, session acquisition, pagination, extraction, per-item
// enrichment, metric derivation, envelope assembly. Errors never escape; a
// fatal condition becomes a failure envelope.
type Pipeline struct {
	sessions  SessionProvider
	store     CacheStore
	selectors *Selectors
	extractor *Extractor
	enricher  *Enricher
	paginator *Paginator

	environment string
	cacheTTL    time.Duration
}

func NewPipeline(sessions SessionProvider, store CacheStore, selectors *Selectors) *Pipeline {
	c := cfg.Get()

	return &Pipeline{
		sessions:    sessions,
		store:       store,
		selectors:   selectors,
		extractor:   NewExtractor(selectors),
		enricher:    NewEnricher(selectors, c.PolitenessDelay),
		paginator:   NewPaginator(c.ScrollSettle),
		environment: c.Environment,
		cacheTTL:    c.CacheTTL,
	}
}

// SearchVideos runs a video search. The returned envelope is always
// non-nil: success with data, or failure with the triggering error message.
func (p *Pipeline) SearchVideos(ctx context.Context, query Query) *Envelope {
	query = query.WithDefaults()
	key := cache.Key(SourceYouTube, query.Keyword, query.MaxResults)

	if cached, ok := p.lookupVideos(ctx, key); ok {
		slog.Info("Cache hit, skipping scrape", "key", key)
		return cached
	}

	start := time.Now()
	slog.Info("Starting video search", "keyword", query.Keyword, "max_results", query.MaxResults)

	session, err := p.sessions.Acquire(ctx)
	if err != nil {
		slog.Error("Session acquisition failed", "keyword", query.Keyword, "error", err)
		return p.failureEnvelope(query, err)
	}
	defer session.Close()

	if err := session.Navigate(resultsURL + url.QueryEscape(query.Keyword)); err != nil {
		slog.Error("Listing navigation failed", "keyword", query.Keyword, "error", err)
		return p.failureEnvelope(query, err)
	}
	if err := session.WaitVisible(titleSelector); err != nil {
		slog.Error("Listing never rendered results", "keyword", query.Keyword, "error", err)
		return p.failureEnvelope(query, err)
	}

	state := p.paginator.Run(session, p.selectors.Listing.CardSelector(), query.MaxResults)

	html, err := session.HTML()
	if err != nil {
		slog.Error("Listing snapshot failed", "keyword", query.Keyword, "error", err)
		return p.failureEnvelope(query, err)
	}

	videos, err := p.extractor.Run(html, query.MaxResults)
	if err != nil {
		slog.Error("Listing extraction failed", "keyword", query.Keyword, "error", err)
		return p.failureEnvelope(query, err)
	}

	p.enricher.Run(ctx, session, videos)

	now := time.Now()
	for i := range videos {
		videos[i].Metrics = ComputeEngagement(videos[i], now)
	}

	envelope := &Envelope{
		Success:     true,
		Data:        videos,
		Total:       len(videos),
		Query:       query.Keyword,
		Environment: p.environment,
		Timestamp:   now,
	}

	p.store.Set(ctx, key, envelope, p.cacheTTL)

	slog.Info("Video search completed",
		"keyword", query.Keyword,
		"total", envelope.Total,
		"pagination", state.String(),
		"duration", time.Since(start))

	return envelope
}

func (p *Pipeline) lookupVideos(ctx context.Context, key string) (*Envelope, bool) {
	raw, ok := p.store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var envelope Envelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		slog.Warn("Discarding unreadable cached envelope", "key", key, "error", err)
		return nil, false
	}

	envelope.FromCache = true
	return &envelope, true
}

func (p *Pipeline) failureEnvelope(query Query, err error) *Envelope {
	return &Envelope{
		Success:     false,
		Total:       0,
		Query:       query.Keyword,
		Environment: p.environment,
		Timestamp:   time.Now(),
		Error:       err.Error(),
	}
}
