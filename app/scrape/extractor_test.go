package scrape

import (
	"strings"
	"testing"
)

func testSelectors(t *testing.T) *Selectors {
	t.Helper()
	s, err := LoadSelectors()
	if err != nil {
		t.Fatalf("Failed to load selector profile: %v", err)
	}
	return s
}

const listingSnapshot = `
<html><body>
<ytd-video-renderer>
  <a id="thumbnail" href="/watch?v=abc12345678">
    <yt-image><img src="https://i.ytimg.com/vi/abc12345678/hq720.jpg"></yt-image>
  </a>
  <a id="video-title" href="/watch?v=abc12345678" title="Go Tutorial">
    <yt-formatted-string>Learn #golang in one video</yt-formatted-string>
  </a>
  <ytd-channel-name><div id="text"><a href="/@gopher">Gopher Academy</a></div></ytd-channel-name>
  <ytd-badge-supported-renderer><div class="badge-style-type-verified"></div></ytd-badge-supported-renderer>
  <div id="metadata-line">
    <span class="inline-metadata-item">1.2K views</span>
    <span class="inline-metadata-item">2 days ago</span>
  </div>
  <ytd-thumbnail-overlay-time-status-renderer><span id="text">12:34</span></ytd-thumbnail-overlay-time-status-renderer>
  <div class="metadata-snippet-container">
    <yt-formatted-string class="metadata-snippet-text">Intro to #golang and #testing</yt-formatted-string>
  </div>
</ytd-video-renderer>
<ytd-video-renderer>
  <a id="video-title" href="/watch?v=def98765432">
    <yt-formatted-string>Untitled stream</yt-formatted-string>
  </a>
</ytd-video-renderer>
<ytd-video-renderer>
  <div id="metadata-line"><span class="inline-metadata-item">3M views</span></div>
</ytd-video-renderer>
</body></html>`

func TestExtractorRun(t *testing.T) {
	extractor := NewExtractor(testSelectors(t))

	videos, err := extractor.Run(listingSnapshot, 10)
	if err != nil {
		t.Fatalf("Extraction failed: %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("Expected 3 videos, got %d", len(videos))
	}

	v := videos[0]
	if v.Title != "Learn #golang in one video" {
		t.Errorf("Unexpected title: %q", v.Title)
	}
	if v.Link != "https://www.youtube.com/watch?v=abc12345678" {
		t.Errorf("Expected canonical watch URL, got %q", v.Link)
	}
	if v.ViewsNumber != 1200 {
		t.Errorf("Expected 1200 views, got %d", v.ViewsNumber)
	}
	if v.ViewsText != "1.2K views" {
		t.Errorf("Unexpected views text: %q", v.ViewsText)
	}
	if v.Thumbnail != "https://i.ytimg.com/vi/abc12345678/hq720.jpg" {
		t.Errorf("Unexpected thumbnail: %q", v.Thumbnail)
	}
	if v.Channel.Name != "Gopher Academy" {
		t.Errorf("Unexpected channel name: %q", v.Channel.Name)
	}
	if v.Channel.Link != "https://www.youtube.com/@gopher" {
		t.Errorf("Unexpected channel link: %q", v.Channel.Link)
	}
	if !v.Channel.Verified {
		t.Error("Expected verified badge to be observed")
	}
	if v.Duration != "12:34" {
		t.Errorf("Unexpected duration: %q", v.Duration)
	}
	if v.PublishedAt == nil {
		t.Error("Expected publishedAt to be parsed from '2 days ago'")
	}
	if len(v.Hashtags) != 2 || v.Hashtags[0] != "#golang" || v.Hashtags[1] != "#testing" {
		t.Errorf("Unexpected hashtags: %v", v.Hashtags)
	}
	if v.Category != NotAvailable {
		t.Errorf("Expected category %s before enrichment, got %q", NotAvailable, v.Category)
	}
}

func TestExtractorMissingFieldsFallBack(t *testing.T) {
	extractor := NewExtractor(testSelectors(t))

	videos, err := extractor.Run(listingSnapshot, 10)
	if err != nil {
		t.Fatalf("Extraction failed: %v", err)
	}

	// Second card has only a title; everything else falls back.
	v := videos[1]
	if v.Title != "Untitled stream" {
		t.Errorf("Unexpected title: %q", v.Title)
	}
	if v.ViewsText != NotAvailable || v.ViewsNumber != 0 {
		t.Errorf("Expected view fallbacks, got %q / %d", v.ViewsText, v.ViewsNumber)
	}
	if v.Duration != NotAvailable {
		t.Errorf("Expected duration fallback, got %q", v.Duration)
	}
	if v.PublishedAt != nil {
		t.Errorf("Expected nil publishedAt, got %v", v.PublishedAt)
	}
	if v.Channel.Name != NotAvailable {
		t.Errorf("Expected channel fallback, got %q", v.Channel.Name)
	}
	if v.Channel.Verified {
		t.Error("Verified must only be true when a badge was observed")
	}
	// Thumbnail resolves through the CDN template from the video id.
	if v.Thumbnail != "https://i.ytimg.com/vi/def98765432/hqdefault.jpg" {
		t.Errorf("Expected templated thumbnail, got %q", v.Thumbnail)
	}
	if len(v.Hashtags) != 0 {
		t.Errorf("Expected no hashtags, got %v", v.Hashtags)
	}

	// Third card has no title or link at all and must still not abort the run.
	if videos[2].Title != NotAvailable || videos[2].Link != NotAvailable {
		t.Errorf("Expected full fallbacks on bare card, got %+v", videos[2])
	}
	if videos[2].ViewsNumber != 3000000 {
		t.Errorf("Expected 3M views parsed, got %d", videos[2].ViewsNumber)
	}
	if videos[2].Thumbnail != NotAvailable {
		t.Errorf("Expected thumbnail fallback without video id, got %q", videos[2].Thumbnail)
	}
}

func TestExtractorHonorsMaxResults(t *testing.T) {
	extractor := NewExtractor(testSelectors(t))

	videos, err := extractor.Run(listingSnapshot, 2)
	if err != nil {
		t.Fatalf("Extraction failed: %v", err)
	}
	if len(videos) != 2 {
		t.Errorf("Expected extraction capped at 2, got %d", len(videos))
	}
}

func TestExtractorEmptySnapshot(t *testing.T) {
	extractor := NewExtractor(testSelectors(t))

	videos, err := extractor.Run("<html><body></body></html>", 10)
	if err != nil {
		t.Fatalf("Extraction failed: %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("Expected no videos from empty page, got %d", len(videos))
	}
}

func TestExtractorCompactCardVariant(t *testing.T) {
	snapshot := strings.ReplaceAll(listingSnapshot, "ytd-video-renderer", "ytd-compact-video-renderer")
	extractor := NewExtractor(testSelectors(t))

	videos, err := extractor.Run(snapshot, 10)
	if err != nil {
		t.Fatalf("Extraction failed: %v", err)
	}
	if len(videos) != 3 {
		t.Errorf("Expected alternative card selector to match, got %d videos", len(videos))
	}
}
