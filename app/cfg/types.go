package cfg

import "time"

type Cfg struct {
	// Application configuration
	Port         string
	Environment  string
	APIAccessKey string

	// Cache configuration
	RedisAddr string
	CacheTTL  time.Duration

	// History database
	HistoryDBPath string

	// Browser configuration
	ChromeBin       string
	UserAgent       string
	PolitenessDelay time.Duration
	ScrollSettle    time.Duration

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// IsProduction reports whether the service runs in the designated production
// environment, which selects the fixed chrome binary and the longer timeouts.
func (c *Cfg) IsProduction() bool {
	return c.Environment == "production"
}

// NavigationTimeout is the page-load budget for top-level navigations.
func (c *Cfg) NavigationTimeout() time.Duration {
	if c.IsProduction() {
		return 60 * time.Second
	}
	return 30 * time.Second
}

// SelectorTimeout is the budget for waiting on an element to appear.
func (c *Cfg) SelectorTimeout() time.Duration {
	if c.IsProduction() {
		return 20 * time.Second
	}
	return 10 * time.Second
}

// BrowserBin returns the chrome executable to launch, or an empty string to
// let the launcher resolve one. Production pins the system chrome build.
func (c *Cfg) BrowserBin() string {
	if c.ChromeBin != "" {
		return c.ChromeBin
	}
	if c.IsProduction() {
		return "/usr/bin/google-chrome-stable"
	}
	return ""
}
