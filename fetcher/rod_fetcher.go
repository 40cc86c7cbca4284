package fetcher

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// stableWindow is how long the DOM must stay unchanged to count as settled
const stableWindow = 500 * time.Millisecond

// RodFetcher implements the Fetcher interface using rod (headless browser)
type RodFetcher struct {
	browser       *rod.Browser
	settleTimeout time.Duration
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher(settleTimeout time.Duration) (*RodFetcher, error) {
	// Try to use system Chrome first, fallback to downloading Chromium
	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled").
		NoSandbox(true).
		// Additional flags for Linux compatibility
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("disable-background-networking").
		Set("disable-breakpad").
		Set("disable-default-apps").
		Set("disable-sync").
		Set("disable-translate").
		Set("mute-audio").
		Set("use-mock-keychain")

	if bin := findBrowserBinary(); bin != "" {
		log.Printf("Using browser binary %s\n", bin)
		l = l.Bin(bin)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w\n\nNote: On Linux, you may need to install Chromium dependencies:\n  apt-get update && apt-get install -y chromium chromium-sandbox || yum install -y chromium", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodFetcher{
		browser:       browser,
		settleTimeout: settleTimeout,
	}, nil
}

// findBrowserBinary returns the first installed Chrome/Chromium, or "" to let
// the launcher download one
func findBrowserBinary() string {
	paths := []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	if username := os.Getenv("USERNAME"); username != "" {
		paths = append(paths, `C:\Users\`+username+`\AppData\Local\Google\Chrome\Application\chrome.exe`)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// NewPage opens a page inside a new incognito browser context
func (rf *RodFetcher) NewPage() (Page, error) {
	incognito, err := rf.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		if closeErr := incognito.Close(); closeErr != nil {
			log.Printf("Warning: Failed to dispose incognito context: %v\n", closeErr)
		}
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &rodPage{
		context:       incognito,
		page:          page,
		settleTimeout: rf.settleTimeout,
	}, nil
}

type rodPage struct {
	context       *rod.Browser
	page          *rod.Page
	settleTimeout time.Duration

	// waitNavigation is armed by Click and consumed by WaitIdle
	waitNavigation func()
}

func (p *rodPage) Navigate(url string) error {
	page := p.page.Timeout(p.settleTimeout)
	defer page.CancelTimeout()

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return p.settle()
}

func (p *rodPage) Elements(selector string) ([]Element, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}

	elements := make([]Element, 0, len(els))
	for _, el := range els {
		elements = append(elements, el)
	}
	return elements, nil
}

func (p *rodPage) Visible(selector string) (bool, error) {
	page := p.page.Timeout(p.settleTimeout)
	defer page.CancelTimeout()

	has, el, err := page.Has(selector)
	if err != nil {
		return false, fmt.Errorf("failed to look up %q: %w", selector, err)
	}
	if !has {
		return false, nil
	}

	visible, err := el.Visible()
	if err != nil {
		return false, fmt.Errorf("failed to check visibility of %q: %w", selector, err)
	}
	return visible, nil
}

func (p *rodPage) Click(selector string) error {
	page := p.page.Timeout(p.settleTimeout)
	defer page.CancelTimeout()

	has, el, err := page.Has(selector)
	if err != nil {
		return fmt.Errorf("failed to look up %q: %w", selector, err)
	}
	if !has {
		return fmt.Errorf("no element matches %q", selector)
	}

	// Must be armed before the click or a fast navigation is missed
	navPage := p.page.Timeout(p.settleTimeout)
	wait := navPage.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		navPage.CancelTimeout()
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}

	p.waitNavigation = func() {
		defer navPage.CancelTimeout()
		wait()
	}
	return nil
}

func (p *rodPage) WaitIdle() error {
	if p.waitNavigation != nil {
		p.waitNavigation()
		p.waitNavigation = nil
	}
	return p.settle()
}

// settle waits for the load event and then for the DOM to stop changing
func (p *rodPage) settle() error {
	page := p.page.Timeout(p.settleTimeout)
	defer page.CancelTimeout()

	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	if err := page.WaitStable(stableWindow); err != nil {
		return fmt.Errorf("page did not stabilize within %s: %w", p.settleTimeout, err)
	}
	return nil
}

func (p *rodPage) Close() error {
	return errors.Join(p.page.Close(), p.context.Close())
}
