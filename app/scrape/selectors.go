package scrape

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

//go:embed selectors.yml
var selectorsYML []byte

// Alternatives is an ordered list of CSS selectors for one field; lookups
// try each in sequence and the first match wins.
type Alternatives []string

type ListingSelectors struct {
	Card          Alternatives `yaml:"card"`
	Title         Alternatives `yaml:"title"`
	Link          Alternatives `yaml:"link"`
	Views         Alternatives `yaml:"views"`
	Thumbnail     Alternatives `yaml:"thumbnail"`
	ChannelName   Alternatives `yaml:"channel_name"`
	Published     Alternatives `yaml:"published"`
	Duration      Alternatives `yaml:"duration"`
	Description   Alternatives `yaml:"description"`
	VerifiedBadge Alternatives `yaml:"verified_badge"`
}

type WatchSelectors struct {
	Marker      Alternatives `yaml:"marker"`
	Views       Alternatives `yaml:"views"`
	LikeButton  Alternatives `yaml:"like_button"`
	Comments    Alternatives `yaml:"comments"`
	Category    Alternatives `yaml:"category"`
	Description Alternatives `yaml:"description"`
}

type TagSelectors struct {
	PostLink  Alternatives `yaml:"post_link"`
	PostImage Alternatives `yaml:"post_image"`
	Likes     Alternatives `yaml:"likes"`
	Comments  Alternatives `yaml:"comments"`
}

type Selectors struct {
	Version int              `yaml:"version"`
	Listing ListingSelectors `yaml:"listing"`
	Watch   WatchSelectors   `yaml:"watch"`
	Tag     TagSelectors     `yaml:"tag"`
}

// LoadSelectors parses the embedded selector profile.
func LoadSelectors() (*Selectors, error) {
	var s Selectors
	if err := yaml.Unmarshal(selectorsYML, &s); err != nil {
		return nil, fmt.Errorf("failed to parse selector profile: %w", err)
	}
	if s.Version == 0 {
		return nil, fmt.Errorf("selector profile has no version")
	}
	return &s, nil
}

// First returns the first selector whose lookup under root yields at least
// one element, or an empty selection when none match.
func (a Alternatives) First(root *goquery.Selection) *goquery.Selection {
	for _, selector := range a {
		if found := root.Find(selector); found.Length() > 0 {
			return found.First()
		}
	}
	return root.Slice(0, 0)
}

// Text returns the trimmed text of the first matching element, or "".
func (a Alternatives) Text(root *goquery.Selection) string {
	return strings.TrimSpace(a.First(root).Text())
}

// Attr returns the named attribute of the first matching element that
// carries it, or "".
func (a Alternatives) Attr(root *goquery.Selection, name string) string {
	for _, selector := range a {
		found := root.Find(selector)
		for i := 0; i < found.Length(); i++ {
			if val, ok := found.Eq(i).Attr(name); ok && strings.TrimSpace(val) != "" {
				return strings.TrimSpace(val)
			}
		}
	}
	return ""
}

// Present reports whether any alternative matches under root.
func (a Alternatives) Present(root *goquery.Selection) bool {
	return a.First(root).Length() > 0
}

// CardSelector is the combined selector matching any known card variant,
// usable for live element counting during pagination.
func (l ListingSelectors) CardSelector() string {
	return strings.Join(l.Card, ", ")
}
