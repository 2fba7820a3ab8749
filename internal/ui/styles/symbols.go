package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/raphi011/wtpr/internal/forge"
)

// PR state symbols (ASCII-safe)
const (
	PRMergedSymbol = "●"
	PROpenSymbol   = "○"
	PRClosedSymbol = "✕"
	PRDraftSymbol  = "◌"
)

// FormatPRState returns a formatted string with symbol and state.
// state should be forge.PRStateMerged, forge.PRStateOpen, forge.PRStateClosed, or empty.
// isDraft indicates if the PR is a draft (only applies to OPEN state).
func FormatPRState(state string, isDraft bool) string {
	switch state {
	case forge.PRStateMerged:
		return PRMergedSymbol + " Merged"
	case forge.PRStateOpen:
		if isDraft {
			return PRDraftSymbol + " Draft"
		}
		return PROpenSymbol + " Open"
	case forge.PRStateClosed:
		return PRClosedSymbol + " Closed"
	default:
		return ""
	}
}

// FormatPRRef returns a colored #<number> string with an OSC 8 hyperlink.
// Returns empty string if number == 0.
func FormatPRRef(number int, state string, isDraft bool, url string) string {
	if number == 0 {
		return ""
	}

	var style lipgloss.Style
	switch state {
	case forge.PRStateOpen:
		if isDraft {
			style = MutedStyle
		} else {
			style = SuccessStyle
		}
	case forge.PRStateMerged:
		style = MergedStyle
	case forge.PRStateClosed:
		style = ErrorStyle
	default:
		style = NormalStyle
	}

	text := fmt.Sprintf("#%d", number)

	if url != "" {
		styled := style.Underline(true).Render(text)
		return ansi.SetHyperlink(url) + styled + ansi.ResetHyperlink()
	}
	return style.Render(text)
}

// FormatStatus colors a working tree status label: clean is green,
// anything with pending changes is yellow.
func FormatStatus(status string) string {
	if status == "clean" {
		return SuccessStyle.Render(status)
	}
	return WarningStyle.Render(status)
}
