// Package pwbrowser is the Playwright board driver.
package pwbrowser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wordle-agent/internal/dom"
	"wordle-agent/internal/entity"

	pw "github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

type Options struct {
	Headless    bool
	UserDataDir string // persistent context when set
	KeyPause    time.Duration
	Install     bool // скачать драйвер и Chromium перед запуском
	Logger      zerolog.Logger
}

// Driver drives the game page through Playwright. Playwright calls are not
// context-aware: every call has its own timeout and ctx is checked between calls.
type Driver struct {
	pw       *pw.Playwright
	browser  pw.Browser // nil for a persistent context
	bctx     pw.BrowserContext
	page     pw.Page
	keyPause time.Duration
	log      zerolog.Logger
}

func New(opts Options) (*Driver, error) {
	log := opts.Logger.With().Str("component", "playwright").Logger()

	if opts.Install {
		log.Info().Msg("🔧 installing Playwright driver")
		if err := pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("playwright install: %w", err)
		}
	}

	instance, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start Playwright: %w", err)
	}

	d := &Driver{pw: instance, keyPause: opts.KeyPause, log: log}
	viewport := &pw.Size{Width: 1280, Height: 960}

	if opts.UserDataDir != "" {
		d.bctx, err = instance.Chromium.LaunchPersistentContext(opts.UserDataDir, pw.BrowserTypeLaunchPersistentContextOptions{
			Headless: pw.Bool(opts.Headless),
			Viewport: viewport,
		})
		if err != nil {
			_ = instance.Stop()
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
	} else {
		d.browser, err = instance.Chromium.Launch(pw.BrowserTypeLaunchOptions{Headless: pw.Bool(opts.Headless)})
		if err != nil {
			_ = instance.Stop()
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		d.bctx, err = d.browser.NewContext(pw.BrowserNewContextOptions{Viewport: viewport})
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("failed to create context: %w", err)
		}
	}

	if d.page, err = d.bctx.NewPage(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return d, nil
}

// Close closes the browser and stops the Playwright driver.
func (d *Driver) Close() error {
	var errs []error
	if d.bctx != nil {
		errs = append(errs, d.bctx.Close())
	}
	if d.browser != nil {
		errs = append(errs, d.browser.Close())
	}
	errs = append(errs, d.pw.Stop())
	return errors.Join(errs...)
}

func (d *Driver) Open(ctx context.Context, url string) error {
	if _, err := d.page.Goto(url, pw.PageGotoOptions{
		Timeout:   ms(30 * time.Second),
		WaitUntil: pw.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	d.log.Info().Str("url", url).Msg("🌍 page opened")

	if !d.waitAndClick(ctx, dom.PlayButton, 10*time.Second) {
		d.log.Warn().Msg("play button not found, maybe the game is already open")
	}
	sleep(ctx, time.Second)

	if res, err := d.page.Evaluate(dom.RemoveAdScript); err == nil {
		if removed, _ := res.(bool); removed {
			d.log.Info().Msg("🧹 ad removed")
		}
	}

	if !d.waitAndClick(ctx, dom.CloseButton, 5*time.Second) {
		d.log.Debug().Msg("no help dialog to close")
	}
	sleep(ctx, time.Second)

	if !d.waitVisible(ctx, dom.Tile, 10*time.Second) {
		return fmt.Errorf("game board did not appear at %s", url)
	}
	return nil
}

func (d *Driver) Submit(ctx context.Context, word string) error {
	word = strings.ToLower(word)
	if !entity.IsValidWord(word) {
		return fmt.Errorf("refusing to type %q", word)
	}
	for _, letter := range word {
		if !d.waitAndClick(ctx, dom.Key(letter), 5*time.Second) {
			return fmt.Errorf("key %q not clickable", letter)
		}
		sleep(ctx, d.keyPause)
	}
	if !d.waitAndClick(ctx, dom.EnterKey, 5*time.Second) {
		if err := d.page.Keyboard().Press("Enter"); err != nil {
			return fmt.Errorf("enter: %w", err)
		}
	}
	d.log.Info().Str("word", word).Msg("⌨️ word submitted")
	return nil
}

func (d *Driver) Clear(ctx context.Context) error {
	for i := 0; i < entity.WordLength; i++ {
		if !d.waitAndClick(ctx, dom.BackspaceKey, 2*time.Second) {
			if err := d.page.Keyboard().Press("Backspace"); err != nil {
				return fmt.Errorf("backspace: %w", err)
			}
		}
		sleep(ctx, d.keyPause)
	}
	return nil
}

func (d *Driver) ReadRow(ctx context.Context, row int) entity.GuessResult {
	tiles, ok := d.scan(ctx)
	if !ok {
		return entity.Unknown
	}
	return dom.RowResult(tiles, row)
}

func (d *Driver) ReadBoard(ctx context.Context) []entity.GuessRecord {
	tiles, ok := d.scan(ctx)
	if !ok {
		return nil
	}
	return dom.Board(tiles)
}

func (d *Driver) scan(ctx context.Context) ([]dom.TileState, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	res, err := d.page.Evaluate(dom.ScanTilesScript)
	if err != nil {
		d.log.Warn().Err(err).Msg("⚠️ tile scan failed")
		return nil, false
	}
	raw, _ := res.(string)
	tiles, err := dom.DecodeTiles(raw)
	if err != nil {
		d.log.Warn().Err(err).Msg("⚠️ tile scan returned garbage")
		return nil, false
	}
	return tiles, true
}

func (d *Driver) waitAndClick(ctx context.Context, selector string, timeout time.Duration) bool {
	if !d.waitVisible(ctx, selector, timeout) {
		return false
	}
	_, _ = d.page.Evaluate(dom.HighlightSelectorScript(selector, 500))

	if err := d.page.Locator(selector).First().Click(pw.LocatorClickOptions{Timeout: ms(5 * time.Second)}); err != nil {
		d.log.Warn().Err(err).Str("selector", selector).Msg("⚠️ click failed")
		return false
	}
	return true
}

func (d *Driver) waitVisible(ctx context.Context, selector string, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	err := d.page.Locator(selector).First().WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
	if err != nil {
		d.log.Debug().Err(err).Str("selector", selector).Msg("element not visible")
		return false
	}
	return true
}

// ms: таймауты Playwright задаются в миллисекундах.
func ms(d time.Duration) *float64 {
	return pw.Float(float64(d.Milliseconds()))
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
