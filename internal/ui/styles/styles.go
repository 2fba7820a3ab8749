// Package styles provides shared lipgloss styles for UI components.
//
// This package centralizes color definitions and styling to ensure
// visual consistency across the prompt and static packages.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Primary colors used throughout the UI
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color for selected/active items (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success is used for checkmarks and positive outcomes (green)
	Success color.Color = lipgloss.Color("82")

	// Warning is used for changes that still need attention (yellow)
	Warning color.Color = lipgloss.Color("214")

	// Error is used for error messages (red)
	Error color.Color = lipgloss.Color("196")

	// Merged is used for merged PRs (purple)
	Merged color.Color = lipgloss.Color("135")

	// Muted is used for disabled/inactive text (gray)
	Muted color.Color = lipgloss.Color("240")

	// Normal is the standard text color (light gray)
	Normal color.Color = lipgloss.Color("252")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MergedStyle  = lipgloss.NewStyle().Foreground(Merged)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	NormalStyle  = lipgloss.NewStyle().Foreground(Normal)

	// TitleStyle renders prompt headings
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)
