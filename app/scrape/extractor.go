package scrape

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const watchBaseURL = "https://www.youtube.com"

// Extractor parses a snapshot of the rendered results page into normalized
// videos. A malformed card is dropped without touching its siblings.
type Extractor struct {
	selectors *Selectors
}

func NewExtractor(selectors *Selectors) *Extractor {
	return &Extractor{selectors: selectors}
}

// Run reads at most max result cards from the snapshot in document order.
func (e *Extractor) Run(html string, max int) ([]Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing snapshot: %w", err)
	}

	cards := e.findCards(doc)
	now := time.Now()

	videos := make([]Video, 0, max)
	dropped := 0

	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if len(videos) >= max {
			return false
		}

		video, err := e.extractCard(card, now)
		if err != nil {
			dropped++
			slog.Warn("Dropping malformed result card", "index", i, "error", err)
			return true
		}

		videos = append(videos, video)
		return true
	})

	if dropped > 0 {
		slog.Info("Listing extraction finished with drops",
			"extracted", len(videos), "dropped", dropped)
	}

	return videos, nil
}

// findCards returns the result elements for the first card variant present
// in the snapshot.
func (e *Extractor) findCards(doc *goquery.Document) *goquery.Selection {
	for _, selector := range e.selectors.Listing.Card {
		if cards := doc.Find(selector); cards.Length() > 0 {
			return cards
		}
	}
	return doc.Selection.Slice(0, 0)
}

// extractCard pulls one candidate off a result card and normalizes it. Any
// panic out of the DOM traversal is converted to an error so the failure
// stays isolated to this card.
func (e *Extractor) extractCard(card *goquery.Selection, now time.Time) (video Video, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("card extraction panicked: %v", r)
		}
	}()

	l := e.selectors.Listing

	candidate := Candidate{
		Title:            l.Title.Text(card),
		Link:             l.Link.Attr(card, "href"),
		ViewsText:        l.Views.Text(card),
		ThumbnailSrc:     l.Thumbnail.Attr(card, "src"),
		ThumbnailDataSrc: l.Thumbnail.Attr(card, "data-src"),
		ChannelName:      l.ChannelName.Text(card),
		ChannelLink:      l.ChannelName.Attr(card, "href"),
		Duration:         l.Duration.Text(card),
		PublishedText:    l.Published.Text(card),
		Description:      l.Description.Text(card),
		Verified:         l.VerifiedBadge.Present(card),
	}

	return candidate.normalize(now), nil
}

// normalize converts the raw candidate into a Video, applying the documented
// fallbacks field by field. The candidate is discarded afterwards.
func (c Candidate) normalize(now time.Time) Video {
	link := canonicalURL(c.Link)

	return Video{
		Title:       fallback(c.Title),
		Link:        link,
		ViewsText:   fallback(c.ViewsText),
		ViewsNumber: ParseViewCount(c.ViewsText),
		Thumbnail:   ResolveThumbnail(c.ThumbnailSrc, c.ThumbnailDataSrc, link),
		Channel: Channel{
			Name:     fallback(c.ChannelName),
			Link:     canonicalURL(c.ChannelLink),
			Verified: c.Verified,
		},
		Duration:    fallback(c.Duration),
		PublishedAt: ParseRelativeTime(c.PublishedText, now),
		Description: fallback(c.Description),
		Hashtags:    ExtractHashtags(c.Title, c.Description),
		Category:    NotAvailable,
	}
}

// canonicalURL absolutizes a page-relative href, or returns the fallback.
func canonicalURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return NotAvailable
	}
	if strings.HasPrefix(href, "/") {
		return watchBaseURL + href
	}
	return href
}
