package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wordle-agent/internal/dom"
	"wordle-agent/internal/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

const highlightMs = 500

// Submit печатает слово по буквам на экранной клавиатуре и жмет Enter.
func (s *BrowserService) Submit(ctx context.Context, word string) error {
	word = strings.ToLower(word)
	if !entity.IsValidWord(word) {
		return fmt.Errorf("refusing to type %q", word)
	}

	for _, letter := range word {
		if !s.waitAndClick(ctx, dom.Key(letter), 5*time.Second) {
			return fmt.Errorf("key %q not clickable", letter)
		}
		sleep(ctx, s.keyPause)
	}

	if !s.waitAndClick(ctx, dom.EnterKey, 5*time.Second) {
		// Экранного Enter нет: жмем физическую клавишу
		if err := s.page.Keyboard.Press(input.Enter); err != nil {
			return fmt.Errorf("enter: %w", err)
		}
	}
	s.log.Info().Str("word", word).Msg("⌨️ word submitted")
	return nil
}

// Clear стирает введенное слово: ровно 5 нажатий Backspace.
func (s *BrowserService) Clear(ctx context.Context) error {
	for i := 0; i < entity.WordLength; i++ {
		if !s.waitAndClick(ctx, dom.BackspaceKey, 2*time.Second) {
			if err := s.page.Keyboard.Press(input.Backspace); err != nil {
				return fmt.Errorf("backspace: %w", err)
			}
		}
		sleep(ctx, s.keyPause)
	}
	s.log.Debug().Msg("input cleared")
	return nil
}

// waitAndClick ждет элемент, подсвечивает и кликает. UI-not-ready не ошибка:
// возвращаем false и пишем в лог.
func (s *BrowserService) waitAndClick(ctx context.Context, selector string, timeout time.Duration) bool {
	el, ok := s.find(ctx, selector, timeout)
	if !ok {
		return false
	}

	// 1. Подсветка (с таймаутом)
	highlightCtx, highlightCancel := context.WithTimeout(ctx, 2*time.Second)
	defer highlightCancel()
	_, _ = el.Context(highlightCtx).Eval(dom.HighlightScript, highlightMs)

	// 2. Клик с таймаутом
	clickCtx, clickCancel := context.WithTimeout(ctx, 5*time.Second)
	defer clickCancel()

	if err := el.Context(clickCtx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		// 3. Если ошибка, пробуем JS
		s.log.Warn().Err(err).Str("selector", selector).Msg("⚠️ click failed, trying JS")
		if jsErr := s.forceClickJS(ctx, el); jsErr != nil {
			s.log.Warn().Err(jsErr).Str("selector", selector).Msg("all click methods failed")
			return false
		}
	}
	return true
}

func (s *BrowserService) waitVisible(ctx context.Context, selector string, timeout time.Duration) bool {
	_, ok := s.find(ctx, selector, timeout)
	return ok
}

func (s *BrowserService) find(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, bool) {
	findCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := s.page.Context(findCtx).Element(selector)
	if err != nil {
		s.log.Debug().Err(err).Str("selector", selector).Msg("element not found")
		return nil, false
	}
	if err := el.Context(findCtx).WaitVisible(); err != nil {
		s.log.Debug().Err(err).Str("selector", selector).Msg("element not visible")
		return nil, false
	}
	return el, true
}

// forceClickJS: принудительный клик через JavaScript
func (s *BrowserService) forceClickJS(ctx context.Context, el *rod.Element) error {
	jsCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := el.Context(jsCtx).Eval(`() => {
		this.click();
		this.dispatchEvent(new MouseEvent('click', {bubbles: true}));
	}`)
	return err
}
