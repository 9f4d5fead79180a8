package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wordle-agent/internal/entity"
)

// AnswerMarker: префикс строки с финальным ответом модели.
const AnswerMarker = "ANSWER:"

// ActionMarker: префикс строки с вызовом инструмента в текстовом формате.
const ActionMarker = "ACTION:"

var (
	// ErrNoWord: в ответе нет ни одного слова из 5 букв.
	ErrNoWord = errors.New("no 5-letter word in llm response")
	// ErrMalformedAction: ответ не удалось разобрать как действие.
	ErrMalformedAction = errors.New("malformed action")
	// ErrUnknownTool: действие разобрано, но такого инструмента нет.
	ErrUnknownTool = errors.New("unknown tool")
)

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{5}\b`)

// ParseWord достает слово для попытки из свободного текста модели.
// Сначала ищется строка "ANSWER: xxxxx", и только если такой нет (или слово в ней
// невалидно) берется первое отдельно стоящее слово из 5 латинских букв.
func ParseWord(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoWord
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`*_> \t")
		if len(line) < len(AnswerMarker) || !strings.EqualFold(line[:len(AnswerMarker)], AnswerMarker) {
			continue
		}
		candidate := trimDecoration(line[len(AnswerMarker):])
		if entity.IsValidWord(candidate) {
			return strings.ToLower(candidate), nil
		}
	}

	if w := wordPattern.FindString(text); w != "" {
		return strings.ToLower(w), nil
	}
	return "", ErrNoWord
}

// trimDecoration снимает пробелы и markdown вокруг слова: "** `crane`." -> "crane".
func trimDecoration(s string) string {
	for {
		next := strings.Trim(strings.TrimSpace(s), "`*_[]\"'.!")
		if next == s {
			return s
		}
		s = next
	}
}

// ParseToolCall разбирает ответ модели в режиме агента. Поддерживаются два формата:
//
//	{"reasoning": "...", "action": {"tool": "submit_word", "args": {"word": "crane"}}}
//	ACTION: submit_word(word="crane")
//
// Аргументы: только строки в кавычках или целые числа.
func ParseToolCall(text string) (entity.ToolCall, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entity.ToolCall{}, fmt.Errorf("%w: empty response", ErrMalformedAction)
	}

	// Строка ACTION: однозначна, фигурные скобки в рассуждениях ее не перебивают
	if hasActionLine(text) {
		return parseCallAction(text)
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return parseCallAction(text)
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		if call, err := parseCallAction(text); err == nil {
			return call, nil
		}
		return entity.ToolCall{}, fmt.Errorf("%w: unbalanced json object", ErrMalformedAction)
	}
	call, jsonErr := parseJSONAction(text[start : end+1])
	if jsonErr == nil {
		return call, nil
	}
	if call, err := parseCallAction(text); err == nil {
		return call, nil
	}
	return entity.ToolCall{}, jsonErr
}

func hasActionLine(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`")
		if len(line) >= len(ActionMarker) && strings.EqualFold(line[:len(ActionMarker)], ActionMarker) {
			return true
		}
	}
	return false
}

// ParseAction = ParseToolCall + ResolveAction.
func ParseAction(text string) (entity.Action, error) {
	call, err := ParseToolCall(text)
	if err != nil {
		return entity.Action{}, err
	}
	return ResolveAction(call)
}

// ResolveAction превращает ToolCall в закрытый вариант entity.Action.
// Неизвестное имя -> ErrUnknownTool, плохие аргументы -> ErrMalformedAction.
func ResolveAction(call entity.ToolCall) (entity.Action, error) {
	action := entity.Action{Reasoning: call.Reasoning}

	switch strings.ToLower(strings.TrimSpace(call.Name)) {
	case "submit_word", "click_word":
		word, ok := call.Args["word"].(string)
		word = strings.TrimSpace(word)
		if !ok || !entity.IsValidWord(word) {
			return action, fmt.Errorf("%w: %s needs a 5-letter word, got %v", ErrMalformedAction, call.Name, call.Args["word"])
		}
		action.Kind = entity.ActionSubmitWord
		action.Word = strings.ToLower(word)

	case "clear_word":
		action.Kind = entity.ActionClearWord

	case "read_board", "read_game_board":
		action.Kind = entity.ActionReadBoard

	case "end_game":
		status, _ := call.Args["status"].(string)
		switch entity.EndStatus(strings.ToLower(strings.TrimSpace(status))) {
		case entity.EndWin:
			action.Status = entity.EndWin
		case entity.EndLoss:
			action.Status = entity.EndLoss
		default:
			return action, fmt.Errorf("%w: end_game status must be win or loss, got %v", ErrMalformedAction, call.Args["status"])
		}
		action.Kind = entity.ActionEndGame

	default:
		return action, fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
	}

	return action, nil
}

// --- JSON формат ---

type actionEnvelope struct {
	Reasoning string `json:"reasoning"`
	Action    *struct {
		Tool string                     `json:"tool"`
		Args map[string]json.RawMessage `json:"args"`
	} `json:"action"`
}

func parseJSONAction(raw string) (entity.ToolCall, error) {
	var env actionEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return entity.ToolCall{}, fmt.Errorf("%w: %v", ErrMalformedAction, err)
	}
	if env.Action == nil || strings.TrimSpace(env.Action.Tool) == "" {
		return entity.ToolCall{}, fmt.Errorf("%w: missing action.tool", ErrMalformedAction)
	}

	call := entity.ToolCall{
		Name:      strings.TrimSpace(env.Action.Tool),
		Args:      make(map[string]any, len(env.Action.Args)),
		Reasoning: env.Reasoning,
	}
	for key, value := range env.Action.Args {
		v, err := literalFromJSON(value)
		if err != nil {
			return entity.ToolCall{}, fmt.Errorf("%w: arg %q: %v", ErrMalformedAction, key, err)
		}
		call.Args[key] = v
	}
	return call, nil
}

// literalFromJSON пропускает только строки и целые числа.
func literalFromJSON(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty value")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return nil, fmt.Errorf("only quoted strings and integers are allowed, got %s", raw)
	}
	return n, nil
}

// --- Текстовый формат: tool_name(key="value", n=3) ---

func parseCallAction(text string) (entity.ToolCall, error) {
	lines := strings.Split(text, "\n")
	var reasoning []string

	for i, line := range lines {
		line = strings.Trim(strings.TrimSpace(line), "`")
		expr := ""
		switch {
		case len(line) >= len(ActionMarker) && strings.EqualFold(line[:len(ActionMarker)], ActionMarker):
			expr = strings.TrimSpace(line[len(ActionMarker):])
		case looksLikeCall(line):
			expr = line
		default:
			if line != "" {
				reasoning = append(reasoning, line)
			}
			continue
		}

		name, args, err := parseCall(expr)
		if err != nil {
			return entity.ToolCall{}, fmt.Errorf("%w: line %d: %v", ErrMalformedAction, i+1, err)
		}
		return entity.ToolCall{
			Name:      name,
			Args:      args,
			Reasoning: strings.Join(reasoning, " "),
		}, nil
	}

	return entity.ToolCall{}, fmt.Errorf("%w: no action found", ErrMalformedAction)
}

func looksLikeCall(line string) bool {
	open := strings.IndexByte(line, '(')
	if open <= 0 || !strings.HasSuffix(line, ")") {
		return false
	}
	return isIdent(line[:open])
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

func parseCall(expr string) (string, map[string]any, error) {
	open := strings.IndexByte(expr, '(')
	if open < 0 {
		return "", nil, errors.New("expected '('")
	}
	name := strings.TrimSpace(expr[:open])
	if !isIdent(name) {
		return "", nil, fmt.Errorf("bad tool name %q", name)
	}

	s := &scanner{src: expr, pos: open + 1}
	args := make(map[string]any)

	s.skipSpaces()
	if s.peek() == ')' {
		s.pos++
		return name, args, s.expectEnd()
	}

	for {
		s.skipSpaces()
		key := s.ident()
		if key == "" {
			return "", nil, fmt.Errorf("expected argument name at %d", s.pos)
		}
		s.skipSpaces()
		if s.peek() != '=' {
			return "", nil, fmt.Errorf("expected '=' after %q", key)
		}
		s.pos++
		s.skipSpaces()

		value, err := s.literal()
		if err != nil {
			return "", nil, fmt.Errorf("argument %q: %w", key, err)
		}
		if _, dup := args[key]; dup {
			return "", nil, fmt.Errorf("duplicate argument %q", key)
		}
		args[key] = value

		s.skipSpaces()
		switch s.peek() {
		case ',':
			s.pos++
		case ')':
			s.pos++
			return name, args, s.expectEnd()
		default:
			return "", nil, fmt.Errorf("expected ',' or ')' at %d", s.pos)
		}
	}
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipSpaces() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) ident() string {
	start := s.pos
	for s.pos < len(s.src) && isIdent(s.src[start:s.pos+1]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) literal() (any, error) {
	switch c := s.peek(); {
	case c == '"':
		start := s.pos
		s.pos++
		for s.pos < len(s.src) {
			switch s.src[s.pos] {
			case '\\':
				s.pos += 2
				continue
			case '"':
				s.pos++
				return strconv.Unquote(s.src[start:s.pos])
			}
			s.pos++
		}
		return nil, errors.New("unterminated string")

	case c == '-' || (c >= '0' && c <= '9'):
		start := s.pos
		s.pos++
		for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
			s.pos++
		}
		return strconv.Atoi(s.src[start:s.pos])
	}
	return nil, fmt.Errorf("only quoted strings and integers are allowed at %d", s.pos)
}

func (s *scanner) expectEnd() error {
	s.skipSpaces()
	if s.pos != len(s.src) {
		return fmt.Errorf("unexpected trailing text %q", s.src[s.pos:])
	}
	return nil
}
