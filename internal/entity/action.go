package entity

import "fmt"

// ActionKind: закрытый набор действий, доступных модели.
type ActionKind int

const (
	ActionSubmitWord ActionKind = iota + 1
	ActionClearWord
	ActionReadBoard
	ActionEndGame
)

func (k ActionKind) String() string {
	switch k {
	case ActionSubmitWord:
		return "submit_word"
	case ActionClearWord:
		return "clear_word"
	case ActionReadBoard:
		return "read_board"
	case ActionEndGame:
		return "end_game"
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// EndStatus is the outcome a model claims when it ends the game.
type EndStatus string

const (
	EndWin  EndStatus = "win"
	EndLoss EndStatus = "loss"
)

// Action: проверенное действие. Word заполнен только для ActionSubmitWord,
// Status только для ActionEndGame.
type Action struct {
	Kind      ActionKind
	Word      string
	Status    EndStatus
	Reasoning string
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSubmitWord:
		return fmt.Sprintf("%s(word=%q)", a.Kind, a.Word)
	case ActionEndGame:
		return fmt.Sprintf("%s(status=%q)", a.Kind, a.Status)
	}
	return a.Kind.String() + "()"
}

// ActionRecord: запись в истории о совершенном действии
// Это нужно для формирования промпта ("Память агента")
type ActionRecord struct {
	Reasoning string // Мысль перед действием
	Action    string // submit_word(word="crane")
	Result    string // Результат (текст для модели)
}
