package browser

import (
	"context"
	"fmt"
	"time"

	"wordle-agent/internal/dom"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/rs/zerolog"
)

// Options: настройки запуска браузера.
type Options struct {
	Headless    bool
	UserDataDir string        // профиль Chrome, сохраняет cookies между запусками
	KeyPause    time.Duration // пауза между нажатиями клавиш
	Logger      zerolog.Logger
}

// BrowserService управляет браузером и одной вкладкой с игрой
type BrowserService struct {
	browser  *rod.Browser
	page     *rod.Page
	keyPause time.Duration
	log      zerolog.Logger
}

// NewBrowserService создает браузер.
func NewBrowserService(ctx context.Context, opts Options) (*BrowserService, error) {
	// 1. Настройка лаунчера
	launch := launcher.New().
		Leakless(true).
		Headless(opts.Headless)
	if opts.UserDataDir != "" {
		launch = launch.UserDataDir(opts.UserDataDir)
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("не удалось запустить браузер: %w", err)
	}

	// 2. Подключение
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("не удалось подключиться: %w", err)
	}

	// 3. Создание STEALTH страницы
	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("ошибка создания stealth страницы: %w", err)
	}

	log := opts.Logger.With().Str("component", "rod").Logger()

	scale := 1.0
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1280,
		Height: 960,
		Scale:  &scale,
		Mobile: false,
	}); err != nil {
		// Не критично
		log.Warn().Err(err).Msg("failed to set viewport")
	}

	return &BrowserService{
		browser:  browser,
		page:     page,
		keyPause: opts.KeyPause,
		log:      log,
	}, nil
}

// Open открывает игру и проходит стартовые экраны: Play, реклама, правила.
// Каждый шаг best-effort: если элемента нет, просто идем дальше.
func (s *BrowserService) Open(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	s.safeWaitLoad(ctx, 10*time.Second)
	s.log.Info().Str("url", url).Msg("🌍 page opened")

	if !s.waitAndClick(ctx, dom.PlayButton, 10*time.Second) {
		s.log.Warn().Msg("play button not found, maybe the game is already open")
	}
	sleep(ctx, time.Second)

	s.removeAd(ctx)

	if !s.waitAndClick(ctx, dom.CloseButton, 5*time.Second) {
		s.log.Debug().Msg("no help dialog to close")
	}
	sleep(ctx, time.Second)

	if !s.waitVisible(ctx, dom.Tile, 10*time.Second) {
		return fmt.Errorf("game board did not appear at %s", url)
	}
	return nil
}

func (s *BrowserService) removeAd(ctx context.Context) {
	evalCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.page.Context(evalCtx).Eval(dom.RemoveAdScript)
	if err != nil {
		s.log.Debug().Err(err).Msg("ad removal script failed")
		return
	}
	if res.Value.Bool() {
		s.log.Info().Msg("🧹 ad removed")
	}
}

// Close закрывает браузер.
func (s *BrowserService) Close() error {
	if s.browser == nil {
		return nil
	}
	return s.browser.Close()
}

func (s *BrowserService) safeWaitLoad(ctx context.Context, timeout time.Duration) {
	done := make(chan struct{})

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Warn().Interface("panic", r).Msg("⚠️ panic while waiting for page load")
			}
			close(done)
		}()

		loadCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		_ = s.page.Context(loadCtx).WaitLoad()
	}()

	select {
	case <-done:
	case <-time.After(timeout + time.Second):
		s.log.Warn().Msg("⚠️ page load timed out, continuing")
	}
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
