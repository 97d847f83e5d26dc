package api

import (
	"context"

	"tubescout/app/cache"
	"tubescout/app/database"
	"tubescout/app/scrape"
)

// Searcher is the pipeline surface the handlers consume.
type Searcher interface {
	SearchVideos(ctx context.Context, query scrape.Query) *scrape.Envelope
	SearchPosts(ctx context.Context, query scrape.Query) *scrape.PostEnvelope
}

var _ Searcher = (*scrape.Pipeline)(nil)

type Handler struct {
	searcher        Searcher
	searchRepo      database.SearchRepository
	store           cache.Store
	selectorVersion int
}

// VideoSearchRequest is the POST /youtube body.
type VideoSearchRequest struct {
	Keyword     string `json:"keyword"`
	MaxVideos   int    `json:"maxVideos"`
	MinDuration int    `json:"minDuration"`
	MaxDuration int    `json:"maxDuration"`
	DateFilter  string `json:"dateFilter"`
}

// PostSearchRequest is the POST /instagram body.
type PostSearchRequest struct {
	Hashtag  string `json:"hashtag"`
	MaxPosts int    `json:"maxPosts"`
}
