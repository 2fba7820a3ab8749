package prompt

import (
	tea "charm.land/bubbletea/v2"
)

// ConfirmResult is the answer to a yes/no question.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	question string
	def      bool
	answer   *bool
	quit     bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	var answer bool
	switch key.String() {
	case "y", "Y":
		answer = true
	case "n", "N":
		answer = false
	case "enter":
		answer = m.def
	case "ctrl+c", "esc", "q":
		m.quit = true
		return m, tea.Quit
	default:
		return m, nil
	}
	m.answer = &answer
	return m, tea.Quit
}

func (m confirmModel) finished() bool { return m.quit || m.answer != nil }

func (m confirmModel) hint() string {
	if m.def {
		return "[Y/n]"
	}
	return "[y/N]"
}

func (m confirmModel) View() tea.View {
	if m.finished() {
		return tea.NewView("")
	}
	return tea.NewView(m.question + " " + m.hint() + " ")
}

// Confirm asks question and waits for y or n. Enter picks def; esc, q
// and ctrl+c cancel.
func Confirm(question string, def bool) (ConfirmResult, error) {
	final, err := run(confirmModel{question: question, def: def})
	if err != nil {
		return ConfirmResult{}, err
	}
	m := final.(confirmModel)
	if m.quit {
		return ConfirmResult{Cancelled: true}, nil
	}
	return ConfirmResult{Confirmed: *m.answer}, nil
}
