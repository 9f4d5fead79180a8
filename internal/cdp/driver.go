// Package cdp is the chromedp board driver. It can start its own Chrome or
// attach to a running one over the DevTools websocket.
package cdp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wordle-agent/internal/dom"
	"wordle-agent/internal/entity"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/rs/zerolog"
)

type Options struct {
	RemoteURL   string // ws://... or http://host:9222; empty starts a local Chrome
	Headless    bool
	UserDataDir string
	KeyPause    time.Duration
	Logger      zerolog.Logger
}

// Driver drives the game page through chromedp.
type Driver struct {
	ctx      context.Context // chromedp browser context
	cancel   func()
	keyPause time.Duration
	log      zerolog.Logger
}

// New allocates a browser and a tab. Close releases both.
func New(parent context.Context, opts Options) (*Driver, error) {
	log := opts.Logger.With().Str("component", "chromedp").Logger()

	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if opts.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(parent, opts.RemoteURL)
	} else {
		flags := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.WindowSize(1280, 960),
		)
		if opts.UserDataDir != "" {
			flags = append(flags, chromedp.UserDataDir(opts.UserDataDir))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(parent, flags...)
	}

	ctx, ctxCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) { log.Debug().Msgf(format, args...) }),
		chromedp.WithErrorf(func(format string, args ...any) { log.Warn().Msgf(format, args...) }),
	)
	cancel := func() {
		ctxCancel()
		allocCancel()
	}

	// JS ошибки страницы в лог
	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev := ev.(type) {
		case *runtime.EventExceptionThrown:
			log.Debug().Str("text", ev.ExceptionDetails.Text).Msg("page exception")
		case *runtime.EventConsoleAPICalled:
			if ev.Type == runtime.APITypeError && len(ev.Args) > 0 {
				log.Debug().Str("value", string(ev.Args[0].Value)).Msg("page console error")
			}
		}
	})

	// Первый Run реально запускает браузер
	if err := chromedp.Run(ctx, emulation.SetDeviceMetricsOverride(1280, 960, 1, false)); err != nil {
		cancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &Driver{ctx: ctx, cancel: cancel, keyPause: opts.KeyPause, log: log}, nil
}

// Close shuts the tab and, for a local allocator, the browser.
func (d *Driver) Close() error {
	d.cancel()
	return nil
}

// Open navigates to the game and gets past the start screens.
func (d *Driver) Open(ctx context.Context, url string) error {
	if err := d.run(ctx, 30*time.Second, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	d.log.Info().Str("url", url).Msg("🌍 page opened")

	if !d.waitAndClick(ctx, dom.PlayButton, 10*time.Second) {
		d.log.Warn().Msg("play button not found, maybe the game is already open")
	}
	sleep(ctx, time.Second)

	var removed bool
	if err := d.run(ctx, 3*time.Second, chromedp.Evaluate(dom.RemoveAdScript, &removed)); err == nil && removed {
		d.log.Info().Msg("🧹 ad removed")
	}

	if !d.waitAndClick(ctx, dom.CloseButton, 5*time.Second) {
		d.log.Debug().Msg("no help dialog to close")
	}
	sleep(ctx, time.Second)

	if err := d.run(ctx, 10*time.Second, chromedp.WaitVisible(dom.Tile, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("game board did not appear at %s: %w", url, err)
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
		if err := d.run(ctx, 2*time.Second, chromedp.KeyEvent(kb.Enter)); err != nil {
			return fmt.Errorf("enter: %w", err)
		}
	}
	d.log.Info().Str("word", word).Msg("⌨️ word submitted")
	return nil
}

func (d *Driver) Clear(ctx context.Context) error {
	for i := 0; i < entity.WordLength; i++ {
		if !d.waitAndClick(ctx, dom.BackspaceKey, 2*time.Second) {
			if err := d.run(ctx, 2*time.Second, chromedp.KeyEvent(kb.Backspace)); err != nil {
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
	var raw string
	if err := d.run(ctx, 5*time.Second, chromedp.Evaluate(dom.ScanTilesScript, &raw)); err != nil {
		d.log.Warn().Err(err).Msg("⚠️ tile scan failed")
		return nil, false
	}
	tiles, err := dom.DecodeTiles(raw)
	if err != nil {
		d.log.Warn().Err(err).Msg("⚠️ tile scan returned garbage")
		return nil, false
	}
	return tiles, true
}

func (d *Driver) waitAndClick(ctx context.Context, selector string, timeout time.Duration) bool {
	if err := d.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		d.log.Debug().Err(err).Str("selector", selector).Msg("element not visible")
		return false
	}

	var highlighted bool
	_ = d.run(ctx, 2*time.Second, chromedp.Evaluate(dom.HighlightSelectorScript(selector, 500), &highlighted))

	if err := d.run(ctx, 5*time.Second, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		d.log.Warn().Err(err).Str("selector", selector).Msg("⚠️ click failed")
		return false
	}
	return true
}

// run выполняет действия в контексте вкладки с таймаутом; отмена ctx вызывающего
// тоже прерывает вызов.
func (d *Driver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
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
