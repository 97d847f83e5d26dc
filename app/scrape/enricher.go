package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DetailPage is the slice of Session the enricher needs.
type DetailPage interface {
	Navigate(url string) error
	WaitVisible(selector string) error
	HTML() (string, error)
}

// Enricher visits each video's own watch page for higher-fidelity fields.
// Failures stay isolated to the single video; the politeness delay applies
// after every visit, successful or not.
type Enricher struct {
	selectors *Selectors
	delay     time.Duration
}

func NewEnricher(selectors *Selectors, delay time.Duration) *Enricher {
	return &Enricher{selectors: selectors, delay: delay}
}

// Run enriches videos in place, one at a time. Items are never removed: a
// failed visit leaves the video with its listing-page fields.
func (e *Enricher) Run(ctx context.Context, page DetailPage, videos []Video) {
	for i := range videos {
		if ctx.Err() != nil {
			slog.Warn("Enrichment cancelled", "remaining", len(videos)-i)
			return
		}

		if err := e.enrichOne(page, &videos[i]); err != nil {
			slog.Warn("Detail enrichment failed, keeping listing fields",
				"link", videos[i].Link, "error", err)
		}

		e.pause(ctx)
	}
}

func (e *Enricher) enrichOne(page DetailPage, v *Video) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrichment panicked: %v", r)
		}
	}()

	if v.Link == NotAvailable {
		return fmt.Errorf("no detail link")
	}

	if err := page.Navigate(v.Link); err != nil {
		return err
	}
	if err := page.WaitVisible(strings.Join(e.selectors.Watch.Marker, ", ")); err != nil {
		return err
	}

	html, err := page.HTML()
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse watch snapshot: %w", err)
	}

	e.applyWatchFields(doc.Selection, v)

	return nil
}

// applyWatchFields copies the watch-page fields onto the video. The watch
// page is authoritative for the view count when it reports a positive one.
func (e *Enricher) applyWatchFields(root *goquery.Selection, v *Video) {
	w := e.selectors.Watch

	if viewsText := w.Views.Text(root); viewsText != "" {
		if n := ParseViewCount(viewsText); n > 0 {
			v.ViewsText = viewsText
			v.ViewsNumber = n
		}
	}

	if label := w.LikeButton.Attr(root, "aria-label"); label != "" {
		v.LikesNumber = ParseViewCount(label)
	}

	if commentsText := w.Comments.Text(root); commentsText != "" {
		v.CommentsNumber = ParseViewCount(commentsText)
	}

	if category := w.Category.Attr(root, "content"); category != "" {
		v.Category = category
	}

	if description := w.Description.Text(root); description != "" {
		v.Description = description
		v.Hashtags = ExtractHashtags(v.Title, description)
	}
}

func (e *Enricher) pause(ctx context.Context) {
	select {
	case <-time.After(e.delay):
	case <-ctx.Done():
	}
}
