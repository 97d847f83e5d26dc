package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestLoadSelectors(t *testing.T) {
	s, err := LoadSelectors()
	if err != nil {
		t.Fatalf("Failed to load embedded selector profile: %v", err)
	}

	if s.Version == 0 {
		t.Error("Selector profile must carry a version")
	}

	fields := map[string]Alternatives{
		"listing.card":      s.Listing.Card,
		"listing.title":     s.Listing.Title,
		"listing.link":      s.Listing.Link,
		"listing.views":     s.Listing.Views,
		"listing.thumbnail": s.Listing.Thumbnail,
		"watch.marker":      s.Watch.Marker,
		"watch.views":       s.Watch.Views,
		"watch.category":    s.Watch.Category,
		"tag.post_link":     s.Tag.PostLink,
	}
	for name, alts := range fields {
		if len(alts) == 0 {
			t.Errorf("Field %s has no selector alternatives", name)
		}
	}
}

func TestAlternativesFirstMatchWins(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div><span class="new">fresh</span><span class="old">legacy</span></div>`))
	if err != nil {
		t.Fatal(err)
	}

	alts := Alternatives{".missing", ".new", ".old"}
	if got := alts.Text(doc.Selection); got != "fresh" {
		t.Errorf("Expected first matching alternative to win, got %q", got)
	}
}

func TestAlternativesNoMatch(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div></div>`))
	if err != nil {
		t.Fatal(err)
	}

	alts := Alternatives{".missing", "#also-missing"}
	if got := alts.Text(doc.Selection); got != "" {
		t.Errorf("Expected empty text when nothing matches, got %q", got)
	}
	if alts.Present(doc.Selection) {
		t.Error("Present must be false when nothing matches")
	}
}

func TestAlternativesAttrSkipsEmptyValues(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div><a class="a" href="">first</a><a class="b" href="/real">second</a></div>`))
	if err != nil {
		t.Fatal(err)
	}

	alts := Alternatives{"a.a", "a.b"}
	if got := alts.Attr(doc.Selection, "href"); got != "/real" {
		t.Errorf("Expected empty attribute skipped, got %q", got)
	}
}

func TestCardSelectorCombinesVariants(t *testing.T) {
	l := ListingSelectors{Card: Alternatives{"ytd-video-renderer", "ytd-compact-video-renderer"}}

	if got := l.CardSelector(); got != "ytd-video-renderer, ytd-compact-video-renderer" {
		t.Errorf("Unexpected combined card selector: %q", got)
	}
}
