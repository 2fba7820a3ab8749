package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/raphi011/wtpr/internal/ui/prompt"
	"github.com/raphi011/wtpr/internal/workflow"
)

func mainStagedContext() *workflow.ScenarioContext {
	state := &workflow.GitState{CurrentBranch: "main", BaseBranch: "main", StagedFiles: []string{"a.go"}}
	return workflow.GetScenarioContext(workflow.MainStagedSame, state, "main")
}

func TestNewChooser(t *testing.T) {
	t.Parallel()

	if _, ok := NewChooser("empty_commit", true, nil).(*KeyChooser); !ok {
		t.Error("an action key should win over an interactive terminal")
	}
	if _, ok := NewChooser("", true, nil).(*PromptChooser); !ok {
		t.Error("no key on a terminal should prompt")
	}
	if _, ok := NewChooser("", false, nil).(noTerminal); !ok {
		t.Error("no key without a terminal should fail")
	}
}

func TestKeyChooser(t *testing.T) {
	t.Parallel()

	c := &KeyChooser{Key: "commit_staged"}
	ch, err := c.ChooseAction(context.Background(), workflow.MainStagedSame, mainStagedContext())
	if err != nil {
		t.Fatalf("ChooseAction() error = %v", err)
	}
	if ch.Key() != "commit_staged" {
		t.Errorf("Key() = %q", ch.Key())
	}

	c.Key = "comit_staged"
	_, err = c.ChooseAction(context.Background(), workflow.MainStagedSame, mainStagedContext())
	var invalid *workflow.InvalidActionError
	if !errors.As(err, &invalid) {
		t.Fatalf("ChooseAction() error = %v, want *InvalidActionError", err)
	}

	if _, err := c.BranchName(context.Background(), *ch.Action, ""); !errors.Is(err, workflow.ErrBranchRequired) {
		t.Errorf("BranchName(\"\") error = %v, want ErrBranchRequired", err)
	}
	if name, err := c.BranchName(context.Background(), *ch.Action, " feat "); err != nil || name != "feat" {
		t.Errorf("BranchName() = %q, %v", name, err)
	}
}

func TestNoTerminal(t *testing.T) {
	t.Parallel()

	_, err := noTerminal{}.ChooseAction(context.Background(), workflow.MainStagedSame, mainStagedContext())
	if !errors.Is(err, ErrNotInteractive) {
		t.Errorf("ChooseAction() error = %v, want ErrNotInteractive", err)
	}
}

func TestPromptChooser_ChooseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  prompt.SelectResult
		wantKey string
		wantErr error
	}{
		{"first", prompt.SelectResult{Index: 0}, "commit_staged", nil},
		{"second", prompt.SelectResult{Index: 1}, "empty_commit", nil},
		{"cancel entry", prompt.SelectResult{Index: 2}, "cancel", nil},
		{"escape", prompt.SelectResult{Cancelled: true}, "", workflow.ErrUserCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotTitle string
			var gotOptions []string
			c := &PromptChooser{
				Select: func(title string, options []string) (prompt.SelectResult, error) {
					gotTitle, gotOptions = title, options
					return tt.result, nil
				},
			}

			sc := mainStagedContext()
			ch, err := c.ChooseAction(context.Background(), workflow.MainStagedSame, sc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ChooseAction() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && ch.Key() != tt.wantKey {
				t.Errorf("Key() = %q, want %q", ch.Key(), tt.wantKey)
			}
			if gotTitle != sc.Message || len(gotOptions) != len(sc.Choices) {
				t.Errorf("prompt got title %q with %d options", gotTitle, len(gotOptions))
			}
		})
	}
}

func TestPromptChooser_BranchName(t *testing.T) {
	t.Parallel()

	action := workflow.StateAction{Action: workflow.ActionEmptyCommit, BranchFrom: workflow.FromBase}

	t.Run("preset skips prompt", func(t *testing.T) {
		t.Parallel()

		c := &PromptChooser{TextInput: func(string, string, func(string) error) (prompt.TextInputResult, error) {
			t.Fatal("prompt should not run")
			return prompt.TextInputResult{}, nil
		}}
		if name, err := c.BranchName(context.Background(), action, "feat"); err != nil || name != "feat" {
			t.Errorf("BranchName() = %q, %v", name, err)
		}
	})

	t.Run("typed name is validated", func(t *testing.T) {
		t.Parallel()

		errExists := errors.New("branch exists")
		c := &PromptChooser{
			Validate: func(name string) error {
				if name == "main" {
					return errExists
				}
				return nil
			},
			TextInput: func(_, _ string, validate func(string) error) (prompt.TextInputResult, error) {
				if err := validate(""); !errors.Is(err, workflow.ErrBranchRequired) {
					t.Errorf("validate(\"\") = %v, want ErrBranchRequired", err)
				}
				if err := validate("main"); !errors.Is(err, errExists) {
					t.Errorf("validate(main) = %v, want %v", err, errExists)
				}
				return prompt.TextInputResult{Value: "feature/login"}, nil
			},
		}
		if name, err := c.BranchName(context.Background(), action, ""); err != nil || name != "feature/login" {
			t.Errorf("BranchName() = %q, %v", name, err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		c := &PromptChooser{TextInput: func(string, string, func(string) error) (prompt.TextInputResult, error) {
			return prompt.TextInputResult{Cancelled: true}, nil
		}}
		if _, err := c.BranchName(context.Background(), action, ""); !errors.Is(err, workflow.ErrUserCancelled) {
			t.Errorf("BranchName() error = %v, want ErrUserCancelled", err)
		}
	})
}

func TestRun_PromptCancelIsNotAnError(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	c := &PromptChooser{Select: func(string, []string) (prompt.SelectResult, error) {
		return prompt.SelectResult{Cancelled: true}, nil
	}}
	f := newTestFlow(repo, &fakeForge{}, c)

	out, err := f.Run(context.Background(), publishAll())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !out.Cancelled {
		t.Error("Cancelled = false, want true")
	}
}
