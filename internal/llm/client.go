package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
)

// ErrEmptyResponse: модель ответила, но без текста и без вызова инструмента.
var ErrEmptyResponse = errors.New("llm returned empty content")

// Client: обертка над openai-go. Состояния игры не хранит.
type Client struct {
	client      *openai.Client
	model       string
	temperature float64
	tools       bool
	log         zerolog.Logger

	base []option.RequestOption
}

// Option настраивает Client.
type Option func(*Client)

// WithTools включает function calling: вызов инструмента возвращается как JSON-действие.
func WithTools() Option {
	return func(c *Client) { c.tools = true }
}

// WithTemperature задает temperature запроса.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithLogger задает логгер клиента.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRequestOptions пробрасывает опции SDK (ретраи, http-клиент, заголовки).
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *Client) {
		all := append(append([]option.RequestOption{}, c.base...), opts...)
		client := openai.NewClient(all...)
		c.client = &client
	}
}

// New создает новый экземпляр LLM клиента
func New(apiKey, model, baseURL string, opts ...Option) *Client {
	c := &Client{
		model:       model,
		temperature: 0.2,
		log:         zerolog.Nop(),
	}
	c.base = []option.RequestOption{option.WithAPIKey(apiKey)}
	// Для OpenRouter/Groq/LocalLLM важно менять BaseURL
	if baseURL != "" {
		c.base = append(c.base, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(c.base...)
	c.client = &client

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete отправляет system instructions + user context и возвращает текст модели.
// Ошибка означает "ответа нет": вызывающий код решает, чем его заменить.
func (c *Client) Complete(ctx context.Context, instructions, input string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    ConstructMessages(instructions, input),
		Temperature: openai.Opt[float64](c.temperature),
	}
	if c.tools {
		params.Tools = defineTools()
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm request failed: %w", ErrEmptyResponse)
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		if len(msg.ToolCalls) > 1 {
			c.log.Warn().Int("tool_calls", len(msg.ToolCalls)).Msg("model returned several tool calls, using the first")
		}
		tc := msg.ToolCalls[0]
		return renderToolCall(msg.Content, tc.Function.Name, tc.Function.Arguments)
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	c.log.Debug().Str("content", content).Msg("llm response")
	return content, nil
}

// renderToolCall превращает нативный tool call в тот же JSON, что модель пишет
// текстом, чтобы весь ввод проходил через ParseToolCall.
func renderToolCall(reasoning, name, arguments string) (string, error) {
	args := json.RawMessage(arguments)
	if strings.TrimSpace(arguments) == "" {
		args = json.RawMessage("{}")
	}
	if !json.Valid(args) {
		// Если модель вернула битый JSON, отдаем как есть: парсер вернет ErrMalformedAction
		return fmt.Sprintf(`{"reasoning": %q, "action": {"tool": %q, "args": %s}}`, reasoning, name, arguments), nil
	}

	out, err := json.Marshal(map[string]any{
		"reasoning": reasoning,
		"action": map[string]any{
			"tool": name,
			"args": args,
		},
	})
	if err != nil {
		return "", fmt.Errorf("render tool call %s: %w", name, err)
	}
	return string(out), nil
}
