package scrape

import (
	"log/slog"
	"time"
)

// PageState is the terminal condition of a pagination run.
type PageState int

const (
	// Scrolling is the non-terminal working state.
	Scrolling PageState = iota
	// Satisfied means enough cards are visible.
	Satisfied
	// Stalled means scrolling stopped producing growth (or the cycle cap
	// was hit); the run proceeds with whatever is visible.
	Stalled
)

func (s PageState) String() string {
	switch s {
	case Scrolling:
		return "scrolling"
	case Satisfied:
		return "satisfied"
	case Stalled:
		return "stalled"
	}
	return "unknown"
}

// maxScrollCycles bounds the worst-case wait against pages that lazy-load
// indefinitely.
const maxScrollCycles = 10

// Paginator drives a listing page through scroll-and-wait cycles until
// enough cards are visible or page growth stalls.
type Paginator struct {
	settle time.Duration
}

func NewPaginator(settle time.Duration) *Paginator {
	return &Paginator{settle: settle}
}

// Run scrolls page until at least target elements match cardSelector, growth
// stalls, or the cycle cap is reached. Driver errors terminate the loop as a
// stall: the page is still usable with whatever already rendered.
func (p *Paginator) Run(page PageDriver, cardSelector string, target int) PageState {
	state := Scrolling

	for cycle := 0; state == Scrolling; cycle++ {
		if cycle >= maxScrollCycles {
			slog.Debug("Pagination hit cycle cap", "cycles", cycle)
			state = Stalled
			break
		}

		visible, err := page.ElementCount(cardSelector)
		if err != nil {
			slog.Warn("Pagination count failed, proceeding with visible items", "error", err)
			state = Stalled
			break
		}
		if visible >= target {
			slog.Debug("Pagination satisfied", "visible", visible, "target", target)
			state = Satisfied
			break
		}

		heightBefore, err := page.PageHeight()
		if err != nil {
			slog.Warn("Pagination height read failed, proceeding with visible items", "error", err)
			state = Stalled
			break
		}

		if err := page.ScrollToBottom(); err != nil {
			slog.Warn("Pagination scroll failed, proceeding with visible items", "error", err)
			state = Stalled
			break
		}

		time.Sleep(p.settle)

		heightAfter, err := page.PageHeight()
		if err != nil {
			slog.Warn("Pagination height read failed, proceeding with visible items", "error", err)
			state = Stalled
			break
		}

		if heightAfter == heightBefore {
			slog.Debug("Pagination stalled", "visible", visible, "target", target, "height", heightAfter)
			state = Stalled
		}
	}

	return state
}
