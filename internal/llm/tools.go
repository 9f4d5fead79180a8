package llm

import (
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
)

// ToolArg описывает один аргумент инструмента.
type ToolArg struct {
	Name        string
	Type        string // "string" | "integer"
	Description string
	Enum        []string
}

// ToolSpec: описание инструмента, общее для текстового промпта и function calling.
type ToolSpec struct {
	Name        string
	Description string
	Args        []ToolArg
	Returns     string
}

// Tools: закрытый набор действий агента. Порядок важен только для промпта.
var Tools = []ToolSpec{
	{
		Name:        "submit_word",
		Description: "Guess a word by clicking its letters on the on-screen keyboard and pressing Enter.",
		Args: []ToolArg{
			{Name: "word", Type: "string", Description: "The 5-letter word to guess."},
		},
		Returns: "The result code of the guess, or a notice that the word was rejected.",
	},
	{
		Name:        "clear_word",
		Description: "Erase the currently typed word (5 backspaces) if it was invalid or a mistake.",
		Returns:     "Nothing.",
	},
	{
		Name:        "read_board",
		Description: "Read the current game board: every accepted guess with its result code.",
		Returns:     "One line per round, e.g. 'Round 1: CRANE -> cpaaa'.",
	},
	{
		Name:        "end_game",
		Description: "End the game with a status of 'win' or 'loss'.",
		Args: []ToolArg{
			{Name: "status", Type: "string", Description: "The status of the game.", Enum: []string{"win", "loss"}},
		},
		Returns: "Nothing. The session stops.",
	},
}

// FormatToolRegistry рендерит реестр для system prompt.
func FormatToolRegistry(tools []ToolSpec) string {
	var sb strings.Builder
	for _, tool := range tools {
		fmt.Fprintf(&sb, "- %s: %s\n", tool.Name, tool.Description)
		sb.WriteString("  Args:\n")
		if len(tool.Args) == 0 {
			sb.WriteString("    - None\n")
		}
		for _, arg := range tool.Args {
			fmt.Fprintf(&sb, "    - %s (%s): %s", arg.Name, arg.Type, arg.Description)
			if len(arg.Enum) > 0 {
				fmt.Fprintf(&sb, " One of: %s.", strings.Join(arg.Enum, ", "))
			}
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "  Returns: %s\n", tool.Returns)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func defineTools() []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(Tools))

	for _, tool := range Tools {
		properties := map[string]any{}
		required := []string{}
		for _, arg := range tool.Args {
			prop := map[string]any{
				"type":        arg.Type,
				"description": arg.Description,
			}
			// Ограничиваем список, чтобы модель не придумывала свои значения
			if len(arg.Enum) > 0 {
				prop["enum"] = arg.Enum
			}
			properties[arg.Name] = prop
			required = append(required, arg.Name)
		}

		out = append(out, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        tool.Name,
			Description: openai.String(tool.Description),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		}))
	}

	return out
}
