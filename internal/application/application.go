package application

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"wordle-agent/internal/agent"
	"wordle-agent/internal/config"
	"wordle-agent/internal/journal"
	"wordle-agent/internal/llm"
	"wordle-agent/internal/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func Run(ctx context.Context) error {
	// 1. Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	log.Info().Msg("🚀 Инициализация системы...")
	log.Info().
		Str("model", cfg.LLM.Model).
		Str("base_url", cfg.LLM.Url).
		Str("mode", cfg.Game.Mode).
		Str("driver", cfg.Browser.Driver).
		Msg("🔧 Конфигурация")

	// 2. Запускаем браузер (Persistent Session)
	log.Info().Msg("🔌 Запускаем браузер...")
	board, err := NewBoard(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("browser launch error: %w", err)
	}
	defer func() {
		if err := board.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ browser close failed")
		}
	}()

	// 3. Журнал партий (опционально)
	j := OpenJournal(ctx, cfg.Journal, log)
	defer j.Close()

	// 4. Поднимаем Мозг (LLM)
	s := &Session{
		Config:  cfg,
		Log:     log,
		Board:   board,
		Brain:   NewBrain(cfg, log),
		Journal: j,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
	_, err = s.Play(ctx)
	return err
}

// NewBrain собирает LLM клиент. В режиме агента включены инструменты.
func NewBrain(cfg *config.Config, log zerolog.Logger) *llm.Client {
	opts := []llm.Option{llm.WithLogger(log.With().Str("component", "llm").Logger())}
	if cfg.Game.Mode == config.ModeAgent {
		opts = append(opts, llm.WithTools())
	}
	return llm.New(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Url, opts...)
}

// OpenJournal возвращает Redis журнал, или Nop если он выключен или недоступен.
func OpenJournal(ctx context.Context, cfg config.JournalConfig, log zerolog.Logger) journal.Journal {
	if cfg.RedisAddr == "" {
		return journal.Nop{}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	j, err := journal.NewRedis(pingCtx, cfg.RedisAddr, cfg.Prefix)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ журнал недоступен, партии не сохраняются")
		return journal.Nop{}
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("📒 журнал партий подключен")
	return j
}

// Session: одна партия от открытия страницы до "нажмите Enter".
type Session struct {
	Config  *config.Config
	Log     zerolog.Logger
	Board   Board
	Brain   agent.Brain
	Journal journal.Journal
	In      io.Reader
	Out     io.Writer
}

// Play opens the game, plays it in the configured mode and reports the outcome.
// The returned error is only for setup failures; a lost or aborted game is not one.
func (s *Session) Play(ctx context.Context) (agent.Outcome, error) {
	cfg := s.Config
	id := uuid.NewString()
	log := s.Log.With().Str("session", id).Logger()

	orch, err := agent.New(s.Board, s.Board, s.Brain, agent.Options{
		SessionID:    id,
		FallbackWord: cfg.Game.FallbackWord,
		MaxRounds:    cfg.Game.MaxRounds,
		MaxAttempts:  cfg.Game.MaxAttempts,
		SettleDelay:  cfg.Game.SettleDelay,
		Logger:       s.Log,
	})
	if err != nil {
		return agent.Outcome{}, err
	}

	log.Info().Str("url", cfg.Game.URL).Msg("🌐 Открываем игру")
	if err := s.Board.Open(ctx, cfg.Game.URL); err != nil {
		return agent.Outcome{}, fmt.Errorf("open %s: %w", cfg.Game.URL, err)
	}

	started := time.Now()
	var out agent.Outcome
	if cfg.Game.Mode == config.ModeAgent {
		out = orch.PlayAgent(ctx)
	} else {
		out = orch.PlayWorkflow(ctx)
	}

	entry := journal.FromOutcome(out, started, time.Now())
	entry.Model = cfg.LLM.Model
	entry.Driver = cfg.Browser.Driver
	if s.Journal != nil {
		// контекст игры мог быть отменен, а запись все равно нужна
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		if err := s.Journal.Record(recCtx, entry); err != nil {
			log.Warn().Err(err).Msg("⚠️ не удалось записать партию в журнал")
		}
		cancel()
	}

	printOutcome(s.Out, out)

	if cfg.Game.WaitForExit && ctx.Err() == nil {
		fmt.Fprint(s.Out, "\n⏸  Нажмите Enter, чтобы закрыть браузер...")
		_, _ = bufio.NewReader(s.In).ReadString('\n')
	}
	return out, nil
}

func printOutcome(w io.Writer, out agent.Outcome) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(w, "\n"+line)
	fmt.Fprintf(w, "%s Игра окончена: %s (%s, ходов: %d, попыток: %d)\n",
		statusIcon(out.Status), out.Status, out.Mode, len(out.History), out.Attempts)
	for i, rec := range out.History {
		fmt.Fprintf(w, "   %d. %s\n", i+1, rec)
	}
	if out.Err != nil {
		fmt.Fprintf(w, "   причина: %v\n", out.Err)
	}
	fmt.Fprintln(w, line)
}

func statusIcon(s agent.Status) string {
	switch s {
	case agent.StatusWon:
		return "🏆"
	case agent.StatusLost:
		return "💀"
	case agent.StatusFailed:
		return "❌"
	}
	return "🛑"
}
