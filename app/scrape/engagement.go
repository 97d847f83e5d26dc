package scrape

import (
	"fmt"
	"math"
	"time"
)

// ComputeEngagement derives the per-video metrics from the normalized
// fields. Pure: the result depends only on v and now.
func ComputeEngagement(v Video, now time.Time) Engagement {
	m := Engagement{EngagementRate: "0%"}

	if v.ViewsNumber > 0 && v.PublishedAt != nil {
		days := int64(now.Sub(*v.PublishedAt).Hours() / 24)
		if days < 1 {
			days = 1
		}
		m.ViewsPerDay = int64(math.Round(float64(v.ViewsNumber) / float64(days)))
	}

	if v.ViewsNumber > 0 {
		rate := float64(v.LikesNumber+v.CommentsNumber) / float64(v.ViewsNumber) * 100
		m.EngagementRate = fmt.Sprintf("%.2f%%", rate)
	}

	return m
}
