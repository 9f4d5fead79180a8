package entity

// ToolCall: намерение агента совершить действие (парсится из ответа LLM).
// Значения Args: только string или int.
type ToolCall struct {
	Name      string         // submit_word, clear_word, ...
	Args      map[string]any // map["word": "crane"]
	Reasoning string         // "Chain of Thought" - почему он это делает
}
