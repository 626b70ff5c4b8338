package navigate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var (
	chromedpExecAllocator = chromedp.NewExecAllocator
	chromedpContext       = chromedp.NewContext
	chromedpRunner        = chromedp.Run
)

// ChromeOpener opens every URL in a new tab of one visible Chrome window that
// lives until Close.
type ChromeOpener struct {
	parent   context.Context
	headless bool

	mu         sync.Mutex
	browserCtx context.Context
	cancels    []context.CancelFunc
}

// ChromeOption is a functional option for configuring the ChromeOpener.
type ChromeOption func(*ChromeOpener)

// WithHeadless runs the browser without a window.
func WithHeadless(headless bool) ChromeOption {
	return func(o *ChromeOpener) {
		o.headless = headless
	}
}

// NewChromeOpener creates an opener bound to ctx. The browser starts lazily
// on the first Open.
func NewChromeOpener(ctx context.Context, opts ...ChromeOption) *ChromeOpener {
	o := &ChromeOpener{parent: ctx}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *ChromeOpener) allocatorOptions() []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", o.headless),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("no-default-browser-check", true),
	}
}

// browser returns the shared browser context, starting Chrome if needed.
func (o *ChromeOpener) browser() (context.Context, error) {
	if o.browserCtx != nil {
		return o.browserCtx, nil
	}

	allocCtx, cancelAllocator := chromedpExecAllocator(o.parent, o.allocatorOptions()...)
	browserCtx, cancelBrowser := chromedpContext(allocCtx)

	if err := chromedpRunner(browserCtx); err != nil {
		cancelBrowser()
		cancelAllocator()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	slog.Debug("Browser started", "headless", o.headless)
	o.browserCtx = browserCtx
	o.cancels = append(o.cancels, cancelBrowser, cancelAllocator)
	return browserCtx, nil
}

// Open navigates a fresh tab to url and brings it to the front.
func (o *ChromeOpener) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	browserCtx, err := o.browser()
	if err != nil {
		return err
	}

	tabCtx, cancelTab := chromedpContext(browserCtx)
	if err := chromedpRunner(tabCtx, chromedp.Navigate(url), page.BringToFront()); err != nil {
		cancelTab()
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	o.cancels = append(o.cancels, cancelTab)
	return nil
}

// Close shuts down every tab and the browser.
func (o *ChromeOpener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := len(o.cancels) - 1; i >= 0; i-- {
		o.cancels[i]()
	}
	o.cancels = nil
	o.browserCtx = nil
	return nil
}
