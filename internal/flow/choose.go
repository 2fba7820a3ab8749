package flow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/wtpr/internal/ui/prompt"
	"github.com/raphi011/wtpr/internal/workflow"
)

// ErrNotInteractive is returned when a choice needs a terminal and none is attached.
var ErrNotInteractive = errors.New("no terminal attached")

// Chooser picks the action to run and names the branch it creates.
// Returning workflow.ErrUserCancelled from either method cancels the run.
type Chooser interface {
	ChooseAction(ctx context.Context, scenario workflow.Scenario, sc *workflow.ScenarioContext) (workflow.Choice, error)
	BranchName(ctx context.Context, action workflow.StateAction, preset string) (string, error)
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewChooser returns the chooser for a run: a KeyChooser when actionKey is
// set, otherwise a PromptChooser when interactive, otherwise a chooser that
// fails asking for --action.
func NewChooser(actionKey string, interactive bool, validate func(string) error) Chooser {
	switch {
	case strings.TrimSpace(actionKey) != "":
		return &KeyChooser{Key: actionKey}
	case interactive:
		return &PromptChooser{Validate: validate}
	default:
		return noTerminal{}
	}
}

// KeyChooser selects the catalog entry with Key. It never prompts.
type KeyChooser struct {
	Key string
}

func (c *KeyChooser) ChooseAction(_ context.Context, scenario workflow.Scenario, sc *workflow.ScenarioContext) (workflow.Choice, error) {
	return workflow.FindChoice(scenario, sc, c.Key)
}

func (c *KeyChooser) BranchName(_ context.Context, action workflow.StateAction, preset string) (string, error) {
	if name := strings.TrimSpace(preset); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("%s creates a new branch, pass --branch: %w", action.Action, workflow.ErrBranchRequired)
}

// PromptChooser asks on the terminal.
type PromptChooser struct {
	// Validate rejects a typed branch name before the prompt closes.
	Validate func(string) error

	// Prompt implementations, nil means the ui/prompt defaults.
	Select    func(title string, options []string) (prompt.SelectResult, error)
	TextInput func(title, initial string, validate func(string) error) (prompt.TextInputResult, error)
}

func (c *PromptChooser) ChooseAction(_ context.Context, _ workflow.Scenario, sc *workflow.ScenarioContext) (workflow.Choice, error) {
	if sc == nil || len(sc.Choices) == 0 {
		return workflow.Choice{}, fmt.Errorf("nothing to choose from")
	}

	title := sc.Message
	if sc.SubMessage != "" {
		title += "\n" + sc.SubMessage
	}
	labels := make([]string, len(sc.Choices))
	for i, ch := range sc.Choices {
		labels[i] = ch.Label
	}

	sel := c.Select
	if sel == nil {
		sel = prompt.Select
	}
	res, err := sel(title, labels)
	if err != nil {
		return workflow.Choice{}, err
	}
	if res.Cancelled || res.Index < 0 || res.Index >= len(sc.Choices) {
		return workflow.Choice{}, workflow.ErrUserCancelled
	}
	return sc.Choices[res.Index], nil
}

func (c *PromptChooser) BranchName(_ context.Context, _ workflow.StateAction, preset string) (string, error) {
	if name := strings.TrimSpace(preset); name != "" {
		return name, nil
	}

	validate := func(name string) error {
		if name == "" {
			return workflow.ErrBranchRequired
		}
		if c.Validate != nil {
			return c.Validate(name)
		}
		return nil
	}

	input := c.TextInput
	if input == nil {
		input = prompt.TextInput
	}
	res, err := input("Name of the new branch:", "", validate)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", workflow.ErrUserCancelled
	}
	if err := validate(res.Value); err != nil {
		return "", err
	}
	return res.Value, nil
}

type noTerminal struct{}

func (noTerminal) ChooseAction(_ context.Context, scenario workflow.Scenario, sc *workflow.ScenarioContext) (workflow.Choice, error) {
	var keys []string
	if sc != nil {
		keys = sc.Keys()
	}
	return workflow.Choice{}, fmt.Errorf("%w: pass --action for scenario %s (valid: %s)",
		ErrNotInteractive, scenario, strings.Join(keys, ", "))
}

func (noTerminal) BranchName(ctx context.Context, action workflow.StateAction, preset string) (string, error) {
	return (&KeyChooser{}).BranchName(ctx, action, preset)
}
