package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Profile selects the browser engine and emulated device for a run.
type Profile struct {
	Name     string // chromium, firefox or webkit
	Device   string // playwright device descriptor name, e.g. "Desktop Chrome"
	Headless bool
	SlowMo   time.Duration
}

// LaunchOptions configures a Launcher.
type LaunchOptions struct {
	Profile       Profile
	BaseURL       string
	ActionTimeout time.Duration
}

// Launcher owns the Playwright driver and one browser process. Sessions created
// from it are isolated browser contexts and may be used from different goroutines.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    LaunchOptions
	device  *playwright.DeviceDescriptor
}

// Launch starts Playwright and the browser described by opts.Profile.
// Browsers must already be installed:
// go run github.com/playwright-community/playwright-go/cmd/playwright install chromium
func Launch(opts LaunchOptions) (*Launcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var device *playwright.DeviceDescriptor
	if opts.Profile.Device != "" {
		d, ok := pw.Devices[opts.Profile.Device]
		if !ok {
			pw.Stop()
			return nil, fmt.Errorf("unknown device %q", opts.Profile.Device)
		}
		device = d
	}

	browserType, err := selectBrowserType(pw, opts.Profile.Name)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Profile.Headless),
		SlowMo:   playwright.Float(float64(opts.Profile.SlowMo.Milliseconds())),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Launcher{
		pw:      pw,
		browser: browser,
		opts:    opts,
		device:  device,
	}, nil
}

func selectBrowserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "", "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser %q", name)
	}
}

// NewSession opens a fresh browser context and page.
func (l *Launcher) NewSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := l.browser.NewContext(l.contextOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Session{
		bctx: bctx,
		page: NewPage(page, l.opts.ActionTimeout),
	}, nil
}

func (l *Launcher) contextOptions() playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{}
	if l.opts.BaseURL != "" {
		opts.BaseURL = playwright.String(l.opts.BaseURL)
	}
	if d := l.device; d != nil {
		opts.Viewport = d.Viewport
		opts.Screen = d.Screen
		opts.UserAgent = playwright.String(d.UserAgent)
		opts.DeviceScaleFactor = playwright.Float(d.DeviceScaleFactor)
		opts.IsMobile = playwright.Bool(d.IsMobile)
		opts.HasTouch = playwright.Bool(d.HasTouch)
	}
	return opts
}

// Close shuts down the browser and the Playwright driver.
func (l *Launcher) Close() error {
	if err := l.browser.Close(); err != nil {
		l.pw.Stop()
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return l.pw.Stop()
}

// Session is one isolated browser context with a single page.
type Session struct {
	bctx playwright.BrowserContext
	page *Page
}

// Handle returns the session page.
func (s *Session) Handle() Handle {
	return s.page
}

// Screenshot captures the session page.
func (s *Session) Screenshot(path string) error {
	return s.page.Screenshot(path)
}

// Close disposes of the context and its page.
func (s *Session) Close() error {
	return s.bctx.Close()
}
