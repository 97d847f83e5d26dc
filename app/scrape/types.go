package scrape

import (
	"time"
)

// Query describes one search request. The duration and date filters are
// accepted at the boundary but not applied by the pipeline, and they do not
// participate in the cache key.
type Query struct {
	Keyword     string
	MaxResults  int
	MinDuration int
	MaxDuration int
	DateFilter  string
}

const DefaultMaxResults = 10

// WithDefaults fills in the default result cap. The pipelines apply it on
// entry; callers that record the query apply it too so both agree on what
// actually ran.
func (q Query) WithDefaults() Query {
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}
	return q
}

// Candidate is the raw per-item structure read off the listing page, before
// any normalization. It is discarded once the Video is built.
type Candidate struct {
	Title            string
	Link             string
	ViewsText        string
	ThumbnailSrc     string
	ThumbnailDataSrc string
	ChannelName      string
	ChannelLink      string
	Duration         string
	PublishedText    string
	Description      string
	Verified         bool
}

type Channel struct {
	Name     string `json:"name"`
	Link     string `json:"link"`
	Verified bool   `json:"verified"`
}

type Engagement struct {
	ViewsPerDay    int64  `json:"viewsPerDay"`
	EngagementRate string `json:"engagementRate"`
}

// Video is the normalized, enriched result unit returned to the caller.
type Video struct {
	Title          string     `json:"title"`
	Link           string     `json:"link"`
	ViewsText      string     `json:"views"`
	ViewsNumber    int64      `json:"viewsNumber"`
	Thumbnail      string     `json:"thumbnail"`
	Channel        Channel    `json:"channel"`
	Duration       string     `json:"duration"`
	PublishedAt    *time.Time `json:"publishedAt"`
	Description    string     `json:"description"`
	Hashtags       []string   `json:"hashtags"`
	Category       string     `json:"category"`
	LikesNumber    int64      `json:"likesNumber"`
	CommentsNumber int64      `json:"commentsNumber"`
	Metrics        Engagement `json:"metrics"`
}

// Post is the result unit of the simpler tag-search flow.
type Post struct {
	Link           string `json:"link"`
	Image          string `json:"image"`
	LikesNumber    int64  `json:"likesNumber"`
	CommentsNumber int64  `json:"commentsNumber"`
}

// Envelope is the final package produced by a video search run. Cached
// envelopes are immutable; a cache hit is returned verbatim with FromCache
// set, never re-mutated.
type Envelope struct {
	Success     bool      `json:"success"`
	Data        []Video   `json:"data"`
	Total       int       `json:"total"`
	Query       string    `json:"query"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
	FromCache   bool      `json:"fromCache"`
	Error       string    `json:"error,omitempty"`
}

// PostEnvelope mirrors Envelope for the tag-search flow.
type PostEnvelope struct {
	Success     bool      `json:"success"`
	Data        []Post    `json:"data"`
	Total       int       `json:"total"`
	Query       string    `json:"query"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
	FromCache   bool      `json:"fromCache"`
	Error       string    `json:"error,omitempty"`
}
