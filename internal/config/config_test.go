package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv hides anything set on the developer machine.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"API_KEY", "OPENAI_API_KEY", "MODEL", "URL", "GAME_URL", "MODE", "FALLBACK_WORD",
		"MAX_ROUNDS", "MAX_ATTEMPTS", "SETTLE_DELAY", "KEY_PAUSE", "WAIT_FOR_EXIT",
		"DRIVER", "HEADLESS", "CHROME_URL", "USER_DATA_DIR", "PLAYWRIGHT_INSTALL", "REDIS_ADDR", "REDIS_PREFIX",
		"LOG_LEVEL", "LOG_FORMAT", "SIM_ADDR", "SIM_ANSWER", "WORDS_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "sk-test")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, ModeWorkflow, cfg.Game.Mode)
	assert.Equal(t, "slope", cfg.Game.FallbackWord)
	assert.Equal(t, 6, cfg.Game.MaxRounds)
	assert.Equal(t, 30, cfg.Game.MaxAttempts)
	assert.Equal(t, 2500*time.Millisecond, cfg.Game.SettleDelay)
	assert.True(t, cfg.Game.WaitForExit)
	assert.Equal(t, DriverRod, cfg.Browser.Driver)
	assert.Equal(t, "wordle", cfg.Journal.Prefix)
	assert.Equal(t, ":5175", cfg.Sim.Addr)
}

func TestFromEnv_OpenAIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.LLM.APIKey)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "k")
	t.Setenv("MODE", "Agent")
	t.Setenv("DRIVER", "sim")
	t.Setenv("FALLBACK_WORD", "ADIEU")
	t.Setenv("MAX_ATTEMPTS", "12")
	t.Setenv("SETTLE_DELAY", "0s")
	t.Setenv("HEADLESS", "true")
	t.Setenv("WAIT_FOR_EXIT", "false")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ModeAgent, cfg.Game.Mode)
	assert.Equal(t, DriverSim, cfg.Browser.Driver)
	assert.Equal(t, "adieu", cfg.Game.FallbackWord)
	assert.Equal(t, 12, cfg.Game.MaxAttempts)
	assert.Zero(t, cfg.Game.SettleDelay)
	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Game.WaitForExit)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestFromEnv_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODE", "chaos")
	t.Setenv("DRIVER", "selenium")
	t.Setenv("FALLBACK_WORD", "toolong")
	t.Setenv("MAX_ROUNDS", "six")
	t.Setenv("MAX_ATTEMPTS", "3")
	t.Setenv("SETTLE_DELAY", "soon")

	_, err := FromEnv()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{"API_KEY", "MODE", "DRIVER", "FALLBACK_WORD", "MAX_ROUNDS", "MAX_ATTEMPTS", "SETTLE_DELAY"} {
		assert.Contains(t, msg, want)
	}
}

func TestFromEnv_ToolConfigSkipsKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRIVER", "chromedp")

	_, err := FromEnv()
	require.Error(t, err)

	cfg, err := fromEnv(false)
	require.NoError(t, err)
	assert.Equal(t, DriverChromedp, cfg.Browser.Driver)
	assert.Empty(t, cfg.LLM.APIKey)
}
