// Command wordlesim serves a local copy of the game page for offline runs:
// point GAME_URL at it and use any browser driver.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wordle-agent/internal/logging"
	"wordle-agent/internal/sim"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log, err := logging.New(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "text"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	words := sim.DefaultWords()
	if path := os.Getenv("WORDS_FILE"); path != "" {
		if words, err = sim.LoadWords(path); err != nil {
			log.Fatal().Err(err).Msg("failed to load word lists")
		}
	}
	answers, allowed := words.Stats()
	log.Info().Int("answers", answers).Int("allowed", allowed).Msg("📚 word lists loaded")

	answer := strings.ToLower(os.Getenv("SIM_ANSWER"))
	if answer != "" && !words.Allowed(answer) {
		log.Fatal().Str("answer", answer).Msg("SIM_ANSWER is not in the word list")
	}

	srv := &http.Server{
		Addr:              getEnv("SIM_ADDR", ":5175"),
		Handler:           sim.NewServer(sim.NewStore(words), answer, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", srv.Addr).Msg("🚀 starting wordle simulator")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("👋 simulator stopped")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
