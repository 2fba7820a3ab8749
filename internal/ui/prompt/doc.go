// Package prompt provides simple interactive prompts.
//
// Prompts render to stderr with the color profile detected for it, so
// stdout stays clean for machine-readable output.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [TextInput]: Single-line text input with optional validation
//   - [Select]: Single selection from a list
package prompt
