package prompt

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/wtpr/internal/ui/styles"
)

// TextInputResult holds the result of a text input prompt.
type TextInputResult struct {
	Value     string
	Cancelled bool
}

type textInputModel struct {
	textInput textinput.Model
	prompt    string
	validate  func(string) error
	err       error
	done      bool
	cancelled bool
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if m.validate != nil {
				if err := m.validate(strings.TrimSpace(m.textInput.Value())); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	m.err = nil
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	view := fmt.Sprintf("%s\n%s", styles.TitleStyle.Render(m.prompt), m.textInput.View())
	if m.err != nil {
		view += "\n" + styles.ErrorStyle.Render(m.err.Error())
	}
	return tea.NewView(view)
}

func newTextInputModel(prompt, initial string, validate func(string) error) textInputModel {
	ti := textinput.New()
	ti.SetValue(initial)
	ti.Focus()
	ti.CharLimit = 156
	ti.SetWidth(50)

	return textInputModel{
		textInput: ti,
		prompt:    prompt,
		validate:  validate,
	}
}

// TextInput shows a text input prompt prefilled with initial. Enter is
// rejected while validate (when non-nil) returns an error.
func TextInput(prompt, initial string, validate func(string) error) (TextInputResult, error) {
	finalModel, err := run(newTextInputModel(prompt, initial, validate))
	if err != nil {
		return TextInputResult{}, err
	}
	m := finalModel.(textInputModel)
	return TextInputResult{
		Value:     strings.TrimSpace(m.textInput.Value()),
		Cancelled: m.cancelled,
	}, nil
}
