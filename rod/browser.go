package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages rendered before the browser is
// relaunched. Chrome's memory use grows with every page and does not drop
// back after pages close.
const DefaultMaxPages = 75

// browserPool owns one headless Chrome and relaunches it every maxPages
// pages. It is safe for concurrent use.
type browserPool struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	maxPages int
}

func newBrowserPool(maxPages int) (*browserPool, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	p := &browserPool{maxPages: maxPages}
	if err := p.launch(); err != nil {
		return nil, err
	}
	return p, nil
}

// acquire returns the browser to render the next page with, relaunching it
// first when the page budget is spent. A failed relaunch keeps the old
// browser.
func (p *browserPool) acquire() *rod.Browser {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pages++
	if p.pages > p.maxPages {
		oldBrowser, oldLauncher := p.browser, p.launcher
		if err := p.launch(); err != nil {
			p.browser, p.launcher = oldBrowser, oldLauncher
			return p.browser
		}
		_ = oldBrowser.Close()
		oldLauncher.Kill()
		p.pages = 1
	}
	return p.browser
}

func (p *browserPool) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}
	p.browser = browser
	p.launcher = l
	return nil
}

func (p *browserPool) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
	return err
}

func (p *browserPool) pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.launcher == nil {
		return 0
	}
	return p.launcher.PID()
}
