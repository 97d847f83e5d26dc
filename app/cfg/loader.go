package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port         string `long:"port" env:"PORT" default:"3000" description:"HTTP server port"`
	Environment  string `long:"environment" env:"APP_ENV" default:"development" description:"Deployment environment (development, production)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Cache configuration
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address for the query cache"`
	CacheTTL  int    `long:"cache-ttl" env:"CACHE_TTL" default:"7200" description:"Query cache TTL in seconds"`

	// History database
	HistoryDBPath string `long:"history-db" env:"HISTORY_DB" default:"./tubescout.db" description:"Path to the SQLite search history database"`

	// Browser configuration
	ChromeBin       string `long:"chrome-bin" env:"CHROME_BIN" description:"Chrome executable path (overrides environment default)"`
	UserAgent       string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" description:"Browser identity string"`
	PolitenessDelay int    `long:"politeness-delay" env:"POLITENESS_DELAY" default:"1000" description:"Pause between detail-page visits in milliseconds"`
	ScrollSettle    int    `long:"scroll-settle" env:"SCROLL_SETTLE" default:"1500" description:"Wait after each scroll in milliseconds"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:            raw.Port,
		Environment:     raw.Environment,
		APIAccessKey:    raw.APIAccessKey,
		RedisAddr:       raw.RedisAddr,
		CacheTTL:        time.Duration(raw.CacheTTL) * time.Second,
		HistoryDBPath:   raw.HistoryDBPath,
		ChromeBin:       raw.ChromeBin,
		UserAgent:       raw.UserAgent,
		PolitenessDelay: time.Duration(raw.PolitenessDelay) * time.Millisecond,
		ScrollSettle:    time.Duration(raw.ScrollSettle) * time.Millisecond,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
