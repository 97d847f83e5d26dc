package scrape

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fallback value for any text field whose lookup fails.
const NotAvailable = "N/A"

var (
	countRe    = regexp.MustCompile(`(?i)([\d][\d,.]*)([KMB])?`)
	relativeRe = regexp.MustCompile(`(?i)(\d+)\s+(minute|hour|day|week|month|year)s?\s+ago`)
	hashtagRe  = regexp.MustCompile(`#\w+`)
	shortsRe   = regexp.MustCompile(`/shorts/([\w-]+)`)
)

// relativeUnits maps a unit name to its duration. Months and years use the
// conventional 30/365 day approximations; the source page only ever shows a
// single coarse unit, so the error is bounded by the page's own rounding.
var relativeUnits = map[string]time.Duration{
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// ParseViewCount converts abbreviated count text ("1.2K views", "3M",
// "1,234 views") to an integer. Unparseable or empty text yields 0.
func ParseViewCount(s string) int64 {
	match := countRe.FindStringSubmatch(s)
	if match == nil {
		return 0
	}

	number := strings.ReplaceAll(match[1], ",", "")
	suffix := strings.ToUpper(match[2])

	if suffix == "" {
		// Dots in an unabbreviated count are thousand separators
		// (pt-BR style "1.234.567"), not decimals.
		number = strings.ReplaceAll(number, ".", "")
		n, err := strconv.ParseInt(number, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}

	value, err := strconv.ParseFloat(strings.TrimSuffix(number, "."), 64)
	if err != nil {
		return 0
	}

	switch suffix {
	case "K":
		value *= 1_000
	case "M":
		value *= 1_000_000
	case "B":
		value *= 1_000_000_000
	}

	return int64(math.Round(value))
}

// ParseRelativeTime converts a "<N> <unit> ago" phrase to the absolute
// instant it names, relative to now. Unrecognized phrasing yields nil.
func ParseRelativeTime(s string, now time.Time) *time.Time {
	match := relativeRe.FindStringSubmatch(s)
	if match == nil {
		return nil
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}

	unit, ok := relativeUnits[strings.ToLower(match[2])]
	if !ok {
		return nil
	}

	t := now.Add(-time.Duration(n) * unit)
	return &t
}

// ResolveThumbnail picks a stable thumbnail URL: the direct image source
// unless it is an inline data: placeholder, then the lazy-load backing
// attribute, then the canonical CDN template keyed by the video id.
func ResolveThumbnail(src, dataSrc, videoLink string) string {
	if src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	if dataSrc != "" && !strings.HasPrefix(dataSrc, "data:") {
		return dataSrc
	}
	if id := ExtractVideoID(videoLink); id != "" {
		return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
	}
	return NotAvailable
}

// ExtractVideoID pulls the video identifier out of a watch or shorts URL.
func ExtractVideoID(link string) string {
	if link == "" || link == NotAvailable {
		return ""
	}

	if match := shortsRe.FindStringSubmatch(link); match != nil {
		return match[1]
	}

	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}

// ExtractHashtags collects hash-prefixed tokens from the given texts,
// deduplicated case-sensitively, preserving first-seen order.
func ExtractHashtags(texts ...string) []string {
	seen := make(map[string]bool)
	tags := []string{}

	for _, text := range texts {
		for _, tag := range hashtagRe.FindAllString(text, -1) {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}

	return tags
}

// fallback returns s, or the documented fallback when s is empty.
func fallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return strings.TrimSpace(s)
}
