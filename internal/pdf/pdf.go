// Package pdf renders CV HTML to PDF through a headless Chrome instance.
// Requires Chrome/Chromium to be installed on the system.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 portrait dimensions in inches, with a 25px gutter on each side. Content
// is scaled down slightly so the template's fixed-width layout fits the page.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	printScale        = 0.91
	sideMarginInches  = 25.0 / 96.0
)

// DefaultTimeout bounds a single render, including browser startup.
const DefaultTimeout = 60 * time.Second

// Renderer converts CV HTML files to PDF bytes.
type Renderer struct {
	timeout time.Duration
}

// NewRenderer returns a Renderer. A non-positive timeout falls back to
// DefaultTimeout.
func NewRenderer(timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Renderer{timeout: timeout}
}

// RenderFile loads the HTML file in a headless browser and returns the
// printed PDF.
func (r *Renderer) RenderFile(ctx context.Context, htmlPath string) ([]byte, error) {
	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HTML path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("HTML file not found: %s", absPath)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+absPath),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				WithScale(printScale).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(sideMarginInches).
				WithMarginRight(sideMarginInches).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("PDF rendering failed: %w", err)
	}

	return pdf, nil
}

// Render writes the HTML to a temporary file and prints it. The temporary
// file is removed before returning.
func (r *Renderer) Render(ctx context.Context, cvHTML string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "cv-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp HTML file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(cvHTML); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp HTML file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp HTML file: %w", err)
	}

	return r.RenderFile(ctx, tmp.Name())
}
