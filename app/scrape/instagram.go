package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tubescout/app/cache"
)

const instagramBaseURL = "https://www.instagram.com"

// SearchPosts runs the simpler tag-search flow: no pagination, link+image
// off the tag page, then a per-post detail visit for likes and comments.
func (p *Pipeline) SearchPosts(ctx context.Context, query Query) *PostEnvelope {
	query = query.WithDefaults()
	key := cache.Key(SourceInstagram, query.Keyword, query.MaxResults)

	if cached, ok := p.lookupPosts(ctx, key); ok {
		slog.Info("Cache hit, skipping scrape", "key", key)
		return cached
	}

	start := time.Now()
	slog.Info("Starting tag search", "hashtag", query.Keyword, "max_results", query.MaxResults)

	session, err := p.sessions.Acquire(ctx)
	if err != nil {
		slog.Error("Session acquisition failed", "hashtag", query.Keyword, "error", err)
		return p.postFailureEnvelope(query, err)
	}
	defer session.Close()

	if err := session.Navigate(tagURL + url.PathEscape(query.Keyword) + "/"); err != nil {
		slog.Error("Tag page navigation failed", "hashtag", query.Keyword, "error", err)
		return p.postFailureEnvelope(query, err)
	}
	if err := session.WaitVisible(strings.Join(p.selectors.Tag.PostLink, ", ")); err != nil {
		slog.Error("Tag page never rendered posts", "hashtag", query.Keyword, "error", err)
		return p.postFailureEnvelope(query, err)
	}

	html, err := session.HTML()
	if err != nil {
		slog.Error("Tag page snapshot failed", "hashtag", query.Keyword, "error", err)
		return p.postFailureEnvelope(query, err)
	}

	posts, err := p.extractPosts(html, query.MaxResults)
	if err != nil {
		slog.Error("Tag page extraction failed", "hashtag", query.Keyword, "error", err)
		return p.postFailureEnvelope(query, err)
	}

	p.enrichPosts(ctx, session, posts)

	envelope := &PostEnvelope{
		Success:     true,
		Data:        posts,
		Total:       len(posts),
		Query:       query.Keyword,
		Environment: p.environment,
		Timestamp:   time.Now(),
	}

	p.store.Set(ctx, key, envelope, p.cacheTTL)

	slog.Info("Tag search completed",
		"hashtag", query.Keyword,
		"total", envelope.Total,
		"duration", time.Since(start))

	return envelope
}

func (p *Pipeline) extractPosts(html string, max int) ([]Post, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tag snapshot: %w", err)
	}

	var anchors *goquery.Selection
	for _, selector := range p.selectors.Tag.PostLink {
		if found := doc.Find(selector); found.Length() > 0 {
			anchors = found
			break
		}
	}
	if anchors == nil {
		return []Post{}, nil
	}

	posts := make([]Post, 0, max)
	anchors.EachWithBreak(func(i int, anchor *goquery.Selection) bool {
		if len(posts) >= max {
			return false
		}

		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			slog.Warn("Dropping post anchor without link", "index", i)
			return true
		}

		post := Post{Link: instagramURL(href)}
		if src, ok := p.selectors.Tag.PostImage.First(anchor).Attr("src"); ok {
			post.Image = src
		}

		posts = append(posts, post)
		return true
	})

	return posts, nil
}

// enrichPosts visits each post's own page for likes and comments. Same
// isolation and politeness rules as the video flow.
func (p *Pipeline) enrichPosts(ctx context.Context, session Session, posts []Post) {
	for i := range posts {
		if ctx.Err() != nil {
			slog.Warn("Post enrichment cancelled", "remaining", len(posts)-i)
			return
		}

		if err := p.enrichPost(session, &posts[i]); err != nil {
			slog.Warn("Post enrichment failed, keeping partial record",
				"link", posts[i].Link, "error", err)
		}

		p.enricher.pause(ctx)
	}
}

func (p *Pipeline) enrichPost(session Session, post *Post) error {
	if err := session.Navigate(post.Link); err != nil {
		return err
	}

	html, err := session.HTML()
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse post snapshot: %w", err)
	}

	if likesText := p.selectors.Tag.Likes.Text(doc.Selection); likesText != "" {
		post.LikesNumber = ParseViewCount(likesText)
	}
	if commentsText := p.selectors.Tag.Comments.Text(doc.Selection); commentsText != "" {
		post.CommentsNumber = ParseViewCount(commentsText)
	}

	return nil
}

func (p *Pipeline) lookupPosts(ctx context.Context, key string) (*PostEnvelope, bool) {
	raw, ok := p.store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var envelope PostEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		slog.Warn("Discarding unreadable cached envelope", "key", key, "error", err)
		return nil, false
	}

	envelope.FromCache = true
	return &envelope, true
}

func (p *Pipeline) postFailureEnvelope(query Query, err error) *PostEnvelope {
	return &PostEnvelope{
		Success:     false,
		Total:       0,
		Query:       query.Keyword,
		Environment: p.environment,
		Timestamp:   time.Now(),
		Error:       err.Error(),
	}
}

func instagramURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return instagramBaseURL + href
	}
	return href
}
