package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"tubescout/app/cfg"
)

// ErrLaunchFailed is returned when the browser could not be acquired after
// all launch attempts.
var ErrLaunchFailed = errors.New("browser launch failed")

const (
	launchAttempts   = 3
	launchRetryDelay = 1 * time.Second

	viewportWidth  = 1366
	viewportHeight = 768
)

// Manager acquires rendering sessions. One session serves exactly one query;
// sessions are never shared between concurrent queries.
type Manager struct {
	bin             string
	userAgent       string
	navTimeout      time.Duration
	selectorTimeout time.Duration

	// launch is swappable so acquisition retry can be tested without chrome.
	launch func() (*Session, error)
}

func NewManager() *Manager {
	c := cfg.Get()

	m := &Manager{
		bin:             c.BrowserBin(),
		userAgent:       c.UserAgent,
		navTimeout:      c.NavigationTimeout(),
		selectorTimeout: c.SelectorTimeout(),
	}
	m.launch = m.launchBrowser

	return m
}

// Acquire launches a browser session, retrying up to 3 times with a 1 second
// pause between attempts. Exhausting the retries is fatal for the query.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	var lastErr error

	for attempt := 1; attempt <= launchAttempts; attempt++ {
		session, err := m.launch()
		if err == nil {
			return session, nil
		}
		lastErr = err
		slog.Warn("Browser launch attempt failed",
			"attempt", attempt,
			"max_attempts", launchAttempts,
			"error", err)

		if attempt < launchAttempts {
			select {
			case <-time.After(launchRetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrLaunchFailed, launchAttempts, lastErr)
}

func (m *Manager) launchBrowser() (*Session, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-setuid-sandbox")

	if m.bin != "" {
		l = l.Bin(m.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("open stealth page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: m.userAgent}); err != nil {
		_ = page.Close()
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("set user agent: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	session := &Session{
		browser:         b,
		page:            page,
		launcher:        l,
		navTimeout:      m.navTimeout,
		selectorTimeout: m.selectorTimeout,
	}

	if err := session.blockHeavyResources(); err != nil {
		session.Close()
		return nil, fmt.Errorf("configure resource blocking: %w", err)
	}

	slog.Debug("Browser session acquired", "bin", m.bin, "nav_timeout", m.navTimeout)

	return session, nil
}

// Session is a scoped rendering resource: one page in one browser, released
// via Close on every exit path.
type Session struct {
	browser         *rod.Browser
	page            *rod.Page
	launcher        *launcher.Launcher
	router          *rod.HijackRouter
	navTimeout      time.Duration
	selectorTimeout time.Duration
}

// blockHeavyResources aborts image, stylesheet and font requests to cut page
// load time and bandwidth.
func (s *Session) blockHeavyResources() error {
	router := s.page.HijackRequests()

	err := router.Add("*", "", func(ctx *rod.Hijack) {
		switch ctx.Request.Type() {
		case proto.NetworkResourceTypeImage,
			proto.NetworkResourceTypeStylesheet,
			proto.NetworkResourceTypeFont:
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		default:
			ctx.ContinueRequest(&proto.FetchContinueRequest{})
		}
	})
	if err != nil {
		return err
	}

	go router.Run()
	s.router = router

	return nil
}

// Navigate loads url and waits for the page load event within the
// environment's navigation timeout.
func (s *Session) Navigate(url string) error {
	page := s.page.Timeout(s.navTimeout)

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s to load: %w", url, err)
	}

	return nil
}

// WaitVisible blocks until selector appears within the selector timeout.
func (s *Session) WaitVisible(selector string) error {
	if _, err := s.page.Timeout(s.selectorTimeout).Element(selector); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

// HTML returns a snapshot of the rendered document.
func (s *Session) HTML() (string, error) {
	html, err := s.page.Timeout(s.selectorTimeout).HTML()
	if err != nil {
		return "", fmt.Errorf("snapshot page: %w", err)
	}
	return html, nil
}

// ElementCount reports how many elements currently match selector, without
// waiting for any to appear.
func (s *Session) ElementCount(selector string) (int, error) {
	elements, err := s.page.Timeout(s.selectorTimeout).Elements(selector)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}
	return len(elements), nil
}

// PageHeight returns the current document scroll height.
func (s *Session) PageHeight() (int, error) {
	obj, err := s.page.Timeout(s.selectorTimeout).Eval(`() => document.documentElement.scrollHeight`)
	if err != nil {
		return 0, fmt.Errorf("read page height: %w", err)
	}
	return obj.Value.Int(), nil
}

// ScrollToBottom triggers a scroll to the end of the document.
func (s *Session) ScrollToBottom() error {
	if _, err := s.page.Timeout(s.selectorTimeout).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	return nil
}

// Close releases the session. Safe to call multiple times and on partially
// initialized sessions.
func (s *Session) Close() {
	if s.router != nil {
		_ = s.router.Stop()
		s.router = nil
	}
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}
