package application

import (
	"context"
	"fmt"

	"wordle-agent/internal/agent"
	"wordle-agent/internal/browser"
	"wordle-agent/internal/cdp"
	"wordle-agent/internal/config"
	"wordle-agent/internal/entity"
	"wordle-agent/internal/pwbrowser"
	"wordle-agent/internal/sim"

	"github.com/rs/zerolog"
)

// Board: все, что приложению нужно от драйвера страницы с игрой.
type Board interface {
	agent.Board
	agent.Keyboard
	Open(ctx context.Context, url string) error
	ReadBoard(ctx context.Context) []entity.GuessRecord
	Close() error
}

var (
	_ Board = (*browser.BrowserService)(nil)
	_ Board = (*cdp.Driver)(nil)
	_ Board = (*pwbrowser.Driver)(nil)
	_ Board = (*sim.Board)(nil)
)

// NewBoard запускает драйвер, выбранный в конфиге. Страница еще не открыта.
func NewBoard(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Board, error) {
	b := cfg.Browser
	switch b.Driver {
	case config.DriverRod:
		svc, err := browser.NewBrowserService(ctx, browser.Options{
			Headless:    b.Headless,
			UserDataDir: b.UserDataDir,
			KeyPause:    cfg.Game.KeyPause,
			Logger:      log,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.DriverChromedp:
		d, err := cdp.New(ctx, cdp.Options{
			RemoteURL:   b.ChromeURL,
			Headless:    b.Headless,
			UserDataDir: b.UserDataDir,
			KeyPause:    cfg.Game.KeyPause,
			Logger:      log,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.DriverPlaywright:
		d, err := pwbrowser.New(pwbrowser.Options{
			Headless:    b.Headless,
			UserDataDir: b.UserDataDir,
			KeyPause:    cfg.Game.KeyPause,
			Install:     b.Install,
			Logger:      log,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.DriverSim:
		words := sim.DefaultWords()
		if cfg.Sim.WordsFile != "" {
			var err error
			if words, err = sim.LoadWords(cfg.Sim.WordsFile); err != nil {
				return nil, err
			}
		}
		board, err := sim.NewBoard(cfg.Sim.Answer, words, log)
		if err != nil {
			return nil, err
		}
		return board, nil
	}
	return nil, fmt.Errorf("unknown driver %q", b.Driver)
}
