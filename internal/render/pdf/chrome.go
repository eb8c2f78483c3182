// Package pdf converts rendered report markup into PDF documents and persists them.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Paper sizes in inches, as Page.printToPDF expects.
var paperSizes = map[string][2]float64{
	"a4":     {8.27, 11.69},
	"letter": {8.5, 11},
	"legal":  {8.5, 14},
}

// ChromeOptions configures the headless Chrome converter.
type ChromeOptions struct {
	// ExecPath overrides Chrome discovery; empty uses chromedp's lookup.
	ExecPath string
	// Timeout bounds a single conversion.
	Timeout   time.Duration
	PaperSize string
}

// ChromeConverter prints HTML to PDF with a shared headless Chrome process.
// Each conversion runs in its own tab.
type ChromeConverter struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc

	timeout     time.Duration
	paperWidth  float64
	paperHeight float64
}

// NewChromeConverter prepares the allocator. Chrome itself starts on the first conversion.
func NewChromeConverter(opts ChromeOptions) (*ChromeConverter, error) {
	size := strings.ToLower(strings.TrimSpace(opts.PaperSize))
	if size == "" {
		size = "a4"
	}
	dims, ok := paperSizes[size]
	if !ok {
		return nil, fmt.Errorf("unsupported paper size %q", opts.PaperSize)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &ChromeConverter{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		timeout:     timeout,
		paperWidth:  dims[0],
		paperHeight: dims[1],
	}, nil
}

func (c *ChromeConverter) browser() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.allocCtx.Err() != nil {
		return nil, errors.New("chrome converter is closed")
	}
	if c.browserCtx == nil || c.browserCtx.Err() != nil {
		c.browserCtx, c.browserCancel = chromedp.NewContext(c.allocCtx)
		// Run with no actions starts the browser.
		if err := chromedp.Run(c.browserCtx); err != nil {
			c.browserCancel()
			c.browserCtx = nil
			return nil, fmt.Errorf("start chrome: %w", err)
		}
	}
	return c.browserCtx, nil
}

// Convert loads markup into a blank tab and prints it.
func (c *ChromeConverter) Convert(ctx context.Context, markup string) ([]byte, error) {
	browserCtx, err := c.browser()
	if err != nil {
		return nil, err
	}
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()

	// The tab context does not derive from ctx; cancel it when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var out []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(c.paperWidth).
				WithPaperHeight(c.paperHeight).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("print to pdf: %w", err)
			}
			out = buf
			return nil
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return out, nil
}

// Close stops Chrome.
func (c *ChromeConverter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browserCancel != nil {
		c.browserCancel()
	}
	c.allocCancel()
}
