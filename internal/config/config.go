package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"wordle-agent/internal/entity"

	"github.com/joho/godotenv"
)

const (
	ModeWorkflow = "workflow"
	ModeAgent    = "agent"

	DriverRod        = "rod"
	DriverChromedp   = "chromedp"
	DriverPlaywright = "playwright"
	DriverSim        = "sim"
)

// Config holds the application configuration
type Config struct {
	LLM     LLMConfig
	Game    GameConfig
	Browser BrowserConfig
	Journal JournalConfig
	Logging LoggingConfig
	Sim     SimConfig
}

type LLMConfig struct {
	APIKey string
	Model  string
	Url    string // пусто = api.openai.com
}

type GameConfig struct {
	URL          string
	Mode         string // workflow | agent
	FallbackWord string
	MaxRounds    int
	MaxAttempts  int
	SettleDelay  time.Duration
	KeyPause     time.Duration
	WaitForExit  bool // ждать Enter перед закрытием браузера
}

type BrowserConfig struct {
	Driver      string // rod | chromedp | playwright | sim
	Headless    bool
	ChromeURL   string // только chromedp: подключиться к уже запущенному Chrome
	UserDataDir string
	Install     bool // только playwright: скачать драйвер и chromium при старте
}

type JournalConfig struct {
	RedisAddr string // пусто = журнал выключен
	Prefix    string
}

type LoggingConfig struct {
	Level  string
	Format string // text | json
}

type SimConfig struct {
	Addr      string
	Answer    string
	WordsFile string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	loadDotEnv()
	return FromEnv()
}

// LoadToolConfig is LoadConfig for tools that never talk to the LLM:
// API_KEY is not required.
func LoadToolConfig() (*Config, error) {
	loadDotEnv()
	return fromEnv(false)
}

func loadDotEnv() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// If .env file doesn't exist, that's fine, we'll use environment variables
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	return fromEnv(true)
}

func fromEnv(requireKey bool) (*Config, error) {
	var errs []error
	p := parser{errs: &errs}

	config := &Config{
		LLM: LLMConfig{
			APIKey: getEnvOrDefault("API_KEY", os.Getenv("OPENAI_API_KEY")),
			Model:  getEnvOrDefault("MODEL", "gpt-4.1-mini"),
			Url:    getEnvOrDefault("URL", ""),
		},
		Game: GameConfig{
			URL:          getEnvOrDefault("GAME_URL", "https://www.nytimes.com/games/wordle/index.html"),
			Mode:         strings.ToLower(getEnvOrDefault("MODE", ModeWorkflow)),
			FallbackWord: strings.ToLower(getEnvOrDefault("FALLBACK_WORD", "slope")),
			MaxRounds:    p.getInt("MAX_ROUNDS", 6),
			MaxAttempts:  p.getInt("MAX_ATTEMPTS", 30),
			SettleDelay:  p.getDuration("SETTLE_DELAY", 2500*time.Millisecond),
			KeyPause:     p.getDuration("KEY_PAUSE", 200*time.Millisecond),
			WaitForExit:  p.getBool("WAIT_FOR_EXIT", true),
		},
		Browser: BrowserConfig{
			Driver:      strings.ToLower(getEnvOrDefault("DRIVER", DriverRod)),
			Headless:    p.getBool("HEADLESS", false),
			ChromeURL:   getEnvOrDefault("CHROME_URL", ""),
			UserDataDir: getEnvOrDefault("USER_DATA_DIR", "user_data"),
			Install:     p.getBool("PLAYWRIGHT_INSTALL", false),
		},
		Journal: JournalConfig{
			RedisAddr: getEnvOrDefault("REDIS_ADDR", ""),
			Prefix:    getEnvOrDefault("REDIS_PREFIX", "wordle"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
		},
		Sim: SimConfig{
			Addr:      getEnvOrDefault("SIM_ADDR", ":5175"),
			Answer:    strings.ToLower(getEnvOrDefault("SIM_ANSWER", "")),
			WordsFile: getEnvOrDefault("WORDS_FILE", ""),
		},
	}

	// Validate required fields
	if requireKey && config.LLM.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required but not set in environment or .env file"))
	}
	errs = append(errs, config.validate()...)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() []error {
	var errs []error
	switch c.Game.Mode {
	case ModeWorkflow, ModeAgent:
	default:
		errs = append(errs, fmt.Errorf("MODE must be %q or %q, got %q", ModeWorkflow, ModeAgent, c.Game.Mode))
	}
	switch c.Browser.Driver {
	case DriverRod, DriverChromedp, DriverPlaywright, DriverSim:
	default:
		errs = append(errs, fmt.Errorf("DRIVER %q is not supported", c.Browser.Driver))
	}
	if !entity.IsValidWord(c.Game.FallbackWord) {
		errs = append(errs, fmt.Errorf("FALLBACK_WORD must be 5 letters, got %q", c.Game.FallbackWord))
	}
	if c.Game.MaxRounds <= 0 {
		errs = append(errs, fmt.Errorf("MAX_ROUNDS must be positive, got %d", c.Game.MaxRounds))
	}
	if c.Game.MaxAttempts < c.Game.MaxRounds {
		errs = append(errs, fmt.Errorf("MAX_ATTEMPTS (%d) must be at least MAX_ROUNDS (%d)", c.Game.MaxAttempts, c.Game.MaxRounds))
	}
	if c.Sim.Answer != "" && !entity.IsValidWord(c.Sim.Answer) {
		errs = append(errs, fmt.Errorf("SIM_ANSWER must be 5 letters, got %q", c.Sim.Answer))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Logging.Format))
	}
	return errs
}

// getEnvOrDefault retrieves an environment variable or returns a default value.
// An empty value counts as unset.
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// parser собирает ошибки разбора, чтобы показать их все сразу.
type parser struct {
	errs *[]error
}

func (p parser) getInt(key string, def int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (p parser) getBool(key string, def bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (p parser) getDuration(key string, def time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}
