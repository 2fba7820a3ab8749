package prompt

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

// rendered returns the text a view draws.
func rendered(v tea.View) string {
	if v.Content == nil {
		return ""
	}
	return fmt.Sprint(v.Content)
}

func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	return tea.KeyPressMsg{Code: rune(key[0])}
}

func TestConfirmModel_Answers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		def      bool
		finished bool
		quit     bool
		answer   bool
	}{
		{key: "y", finished: true, answer: true},
		{key: "N", def: true, finished: true},
		{key: "enter", finished: true},
		{key: "enter", def: true, finished: true, answer: true},
		{key: "esc", finished: true, quit: true},
		{key: "ctrl+c", def: true, finished: true, quit: true},
		{key: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			updated, cmd := confirmModel{question: "Overwrite?", def: tt.def}.Update(keyPress(tt.key))
			m := updated.(confirmModel)

			if m.finished() != tt.finished {
				t.Fatalf("finished = %v, want %v", m.finished(), tt.finished)
			}
			if (cmd != nil) != tt.finished {
				t.Errorf("quit cmd returned = %v, want %v", cmd != nil, tt.finished)
			}
			if m.quit != tt.quit {
				t.Errorf("quit = %v, want %v", m.quit, tt.quit)
			}
			if m.answer != nil && *m.answer != tt.answer {
				t.Errorf("answer = %v, want %v", *m.answer, tt.answer)
			}
		})
	}
}

func TestConfirmModel_Hint(t *testing.T) {
	t.Parallel()

	if got := rendered(confirmModel{question: "Overwrite?"}.View()); got != "Overwrite? [y/N] " {
		t.Errorf("View() = %q, want %q", got, "Overwrite? [y/N] ")
	}
	if got := rendered(confirmModel{question: "Push?", def: true}.View()); !strings.Contains(got, "[Y/n]") {
		t.Errorf("View() = %q, want [Y/n] hint", got)
	}
	yes := true
	if got := rendered(confirmModel{answer: &yes}.View()); got != "" {
		t.Errorf("View() after answer = %q, want empty", got)
	}
}
