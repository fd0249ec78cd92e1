package main

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Page is the browser capability consumed by the checkout components. The
// production implementation drives a rod page; tests substitute a fake.
type Page interface {
	Navigate(url string) error
	Fill(selector, value string) error
	Click(selector string) error
	Check(selector string) error
	IsChecked(selector string) (bool, error)
	Press(key string) error
	Content() (string, error)
	URL() (string, error)

	// ExpectResponse arms a waiter for a background network response whose
	// URL contains urlPart and whose status is 200. The returned function
	// blocks until that response is observed or the action timeout elapses.
	// It must be armed before the interaction that triggers the request.
	ExpectResponse(urlPart string) func() error
}

// BrowserSession owns one browser process, one isolated context, and one
// page for the duration of a single checkout run.
type BrowserSession struct {
	config   *Config
	log      *RunLog
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	released bool
}

func NewBrowserSession(config *Config, log *RunLog) *BrowserSession {
	return &BrowserSession{config: config, log: log}
}

func (s *BrowserSession) Acquire() (Page, error) {
	// Disable leakless mode on Windows to prevent deadlock
	// See: https://github.com/go-rod/rod/issues/853
	useLeakless := runtime.GOOS != "windows"

	s.launcher = launcher.New().
		Leakless(useLeakless).
		Headless(s.config.Headless)

	// Prefer system Chrome when present; avoids a Chromium download.
	if chromePath, ok := launcher.LookPath(); ok {
		s.launcher = s.launcher.Bin(chromePath)
	}

	controlURL, err := s.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if s.config.SlowMotionMS > 0 {
		browser = browser.SlowMotion(time.Duration(s.config.SlowMotionMS) * time.Millisecond)
	}
	if err := browser.Connect(); err != nil {
		s.launcher.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	s.browser = browser

	context, err := browser.Incognito()
	if err != nil {
		s.teardown()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := stealth.Page(context)
	if err != nil {
		s.teardown()
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	if s.config.ViewportWidth > 0 && s.config.ViewportHeight > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:  s.config.ViewportWidth,
			Height: s.config.ViewportHeight,
		})
		if err != nil {
			s.log.Warn(LogFields{Step: "session", Message: "failed to set viewport", Error: err.Error()})
		}
	}

	s.page = page
	s.log.Info(LogFields{Step: "session", Message: "browser session acquired"})

	return &rodPage{page: page, timeout: s.config.ActionTimeout()}, nil
}

// Release observes the settle delay so pending redirect and analytics
// requests can finish, then tears the browser down. Safe to call when
// Acquire failed; failures here are logged and never override the run's
// primary outcome.
func (s *BrowserSession) Release() {
	if s.released {
		return
	}
	s.released = true

	if s.page != nil && s.config.SettleDelaySeconds > 0 {
		time.Sleep(time.Duration(s.config.SettleDelaySeconds) * time.Second)
	}

	s.teardown()
	s.log.Info(LogFields{Step: "session", Message: "browser session released"})
}

func (s *BrowserSession) teardown() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.log.Warn(LogFields{Step: "session", Message: "page close failed", Error: err.Error()})
		}
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.Warn(LogFields{Step: "session", Message: "browser close failed", Error: err.Error()})
		}
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

// rodPage adapts a rod page to the Page capability, applying the per-action
// timeout to every interaction.
type rodPage struct {
	page    *rod.Page
	timeout time.Duration
}

func (p *rodPage) Navigate(url string) error {
	pg := p.page.Timeout(p.timeout)
	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

func (p *rodPage) element(selector string) (*rod.Element, error) {
	el, err := p.page.Timeout(p.timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	return el, nil
}

func (p *rodPage) Fill(selector, value string) error {
	el, err := p.element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text in %s: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

func (p *rodPage) Click(selector string) error {
	el, err := p.element(selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// Check activates a radio or checkbox. WooCommerce payment radios toggle on
// click; callers gate this behind IsChecked for idempotence.
func (p *rodPage) Check(selector string) error {
	return p.Click(selector)
}

func (p *rodPage) IsChecked(selector string) (bool, error) {
	el, err := p.element(selector)
	if err != nil {
		return false, err
	}
	v, err := el.Property("checked")
	if err != nil {
		return false, fmt.Errorf("read checked state of %s: %w", selector, err)
	}
	return v.Bool(), nil
}

func (p *rodPage) Press(key string) error {
	switch key {
	case "Enter":
		if err := p.page.Keyboard.Press(input.Enter); err != nil {
			return fmt.Errorf("press %s: %w", key, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported key %q", key)
	}
}

func (p *rodPage) Content() (string, error) {
	html, err := p.page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return html, nil
}

func (p *rodPage) URL() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", fmt.Errorf("read page url: %w", err)
	}
	return info.URL, nil
}

func (p *rodPage) ExpectResponse(urlPart string) func() error {
	pg := p.page.Timeout(p.timeout)
	wait := pg.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		return strings.Contains(e.Response.URL, urlPart) && e.Response.Status == 200
	})
	return func() error {
		wait()
		if pg.GetContext().Err() != nil {
			return fmt.Errorf("no %q response with status 200 within %s", urlPart, p.timeout)
		}
		return nil
	}
}
