package llm

import (
	"fmt"
	"strings"

	"wordle-agent/internal/entity"

	"github.com/openai/openai-go/v3"
)

// WordleInstructions: system prompt для режима workflow: модель выбирает только слово.
const WordleInstructions = `You are an expert Wordle player. You will be given a history of previous guesses and their results, as well as the current round and how many guesses you have left.

Always reason strategically about what word you should guess next. At the end, output your final guess in this exact format:
ANSWER: [your 5-letter word]
No quotes, no extra text, no explanation after it. Make sure the final answer is actually a 5-letter word.
If your answer does not contain the final 5-letter answer in that format, it will be ignored.

RESULT FORMAT:
Each line: Round X: WORD -> RESULT
- RESULT uses:
  - c = correct (green)
  - p = present (yellow)
  - a = absent (gray)
  - u = unknown

Example:
Round 1: CRANE -> cpaaa
=> C is green, R is yellow, A/N/E are gray.

Think step by step, but be concise:
1. Analyze which letters are confirmed, eliminated, or likely.
2. Consider frequency and coverage of the remaining options.
3. Choose the most promising guess.
4. Try to win in as few guesses as possible.

Then end with:
ANSWER: [your word]
`

// AgentInstructions собирает system prompt для режима агента: правила, инструменты
// и формат ответа.
func AgentInstructions(maxRounds int, tools []ToolSpec) string {
	return fmt.Sprintf(`You are an expert Wordle player.

Your goal is to guess the hidden 5-letter word in as few attempts as possible.

### Game Rules
- You have %d total guesses.
- After each guess, the game displays feedback:
  - 'c' means correct letter in correct position (green),
  - 'p' means correct letter, wrong position (yellow),
  - 'a' means letter not in the word (gray),
  - 'u' means the result is unknown or the guess was invalid.

### Tool Usage Strategy
- Guess a word with submit_word. Its result tells you the feedback for that guess.
- If a guess was rejected (result contains 'u'), clear_word is done for you; pick a different, real English word.
- Use read_board whenever you are unsure about the board.
- When the board shows 'ccccc' call end_game with status 'win'. When all guesses are used, call end_game with status 'loss'.
- Before making a guess, summarize the board and state how many guesses are left.

### Available Tools
%s

### Output Format
Respond with JSON only:
{
  "reasoning": "Explain what you're doing and why.",
  "action": {
    "tool": "tool_name",
    "args": { ... }
  }
}

Argument values must be quoted strings or integers.

Example:
{
  "reasoning": "First guess. CRANE covers common letters.",
  "action": {"tool": "submit_word", "args": {"word": "crane"}}
}
`, maxRounds, FormatToolRegistry(tools))
}

// FormatGuessHistory: "Round N: WORD -> code", нумерация с 1.
func FormatGuessHistory(history []entity.GuessRecord) string {
	var sb strings.Builder
	for i, rec := range history {
		fmt.Fprintf(&sb, "Round %d: %s\n", i+1, rec)
	}
	return sb.String()
}

// BuildGameContext: user prompt для режима workflow.
func BuildGameContext(history []entity.GuessRecord, maxRounds int) string {
	var sb strings.Builder
	sb.WriteString("Previous guesses:\n")
	if len(history) == 0 {
		sb.WriteString("(none yet)\n")
	}
	sb.WriteString(FormatGuessHistory(history))

	fmt.Fprintf(&sb, "\nCurrent round: %d. There are %d guesses left.\n\n", len(history)+1, maxRounds-len(history))
	sb.WriteString("Think step by step and guess the next word.\n\n")
	sb.WriteString("End with:\n" + AnswerMarker + " [your word]\n")
	return sb.String()
}

// BuildAgentContext: user prompt для режима агента: лог действий + доска.
func BuildAgentContext(actions []entity.ActionRecord, history []entity.GuessRecord, maxRounds int) string {
	var sb strings.Builder

	sb.WriteString("You are currently playing a game of Wordle.\n\n")
	sb.WriteString("PREVIOUS ACTIONS LOG:\n")
	if len(actions) == 0 {
		sb.WriteString("(no actions yet)\n")
	}
	for i, rec := range actions {
		fmt.Fprintf(&sb, "Step %d: %s -> %s\n", i+1, rec.Action, rec.Result)
	}

	sb.WriteString("\nBOARD:\n")
	if len(history) == 0 {
		sb.WriteString("(empty)\n")
	}
	sb.WriteString(FormatGuessHistory(history))

	fmt.Fprintf(&sb, "\nGuesses used: %d of %d. Guesses left: %d.\n\n", len(history), maxRounds, maxRounds-len(history))
	sb.WriteString("ALWAYS use your past actions and their results to decide what to do next.\n")
	sb.WriteString("ALWAYS state the number of remaining guesses before choosing a word.\n")
	return sb.String()
}

// ConstructMessages создает цепочку сообщений для отправки в LLM.
// Это чистая функция: вход -> выход. Её легко тестировать.
func ConstructMessages(instructions, input string) []openai.ChatCompletionMessageParamUnion {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if instructions != "" {
		messages = append(messages, openai.SystemMessage(instructions))
	}
	return append(messages, openai.UserMessage(input))
}
