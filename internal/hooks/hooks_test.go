package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/wtpr/internal/config"
)

func TestSubstitutePlaceholders(t *testing.T) {
	t.Parallel()

	hctx := Context{
		Path:    "/home/user/myrepo.pr7",
		Branch:  "feat/login",
		Base:    "main",
		Repo:    "myrepo",
		Number:  7,
		URL:     "https://github.com/org/myrepo/pull/7",
		Trigger: TriggerWorktree,
	}

	tests := []struct {
		name     string
		command  string
		expected string
	}{
		{"single placeholder", "code {path}", "code '/home/user/myrepo.pr7'"},
		{"multiple placeholders", "cd {path} && echo {branch}", "cd '/home/user/myrepo.pr7' && echo 'feat/login'"},
		{
			"all placeholders",
			"{path} {branch} {base} {repo} {number} {url} {trigger}",
			"'/home/user/myrepo.pr7' 'feat/login' 'main' 'myrepo' '7' 'https://github.com/org/myrepo/pull/7' 'worktree'",
		},
		{"no placeholders", "echo hello", "echo hello"},
		{"repeated placeholder", "{number} and {number}", "'7' and '7'"},
		{"unknown placeholder kept", "echo {folder}", "echo {folder}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SubstitutePlaceholders(tt.command, hctx); got != tt.expected {
				t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, got, tt.expected)
			}
		})
	}
}

func TestSubstitutePlaceholders_ShellEscaping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hctx     Context
		command  string
		expected string
	}{
		{"path with spaces", Context{Path: "/home/user/my documents/wt"}, "code {path}", "code '/home/user/my documents/wt'"},
		{"branch with single quote", Context{Branch: "it's"}, "echo {branch}", `echo 'it'\''s'`},
		{"command substitution stays literal", Context{Branch: "$(rm -rf /)"}, "echo {branch}", "echo '$(rm -rf /)'"},
		{"zero number is empty", Context{}, "echo {number}", "echo ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SubstitutePlaceholders(tt.command, tt.hctx); got != tt.expected {
				t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, got, tt.expected)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	disabled := false
	hooks := map[string]config.Hook{
		"deps":    {Command: "npm ci", On: []string{"worktree"}},
		"notify":  {Command: "notify {url}", On: []string{"pr"}},
		"always":  {Command: "echo", On: []string{"all"}},
		"manual":  {Command: "echo manual"},
		"stopped": {Command: "echo", On: []string{"all"}, Enabled: &disabled},
	}

	tests := []struct {
		name    string
		trigger Trigger
		noHook  bool
		want    []string
	}{
		{"pr", TriggerPR, false, []string{"always", "notify"}},
		{"worktree", TriggerWorktree, false, []string{"always", "deps"}},
		{"no hook", TriggerPR, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			matches := Select(hooks, tt.noHook, tt.trigger)
			var names []string
			for _, m := range matches {
				names = append(names, m.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Select(%s) = %v, want %v", tt.trigger, names, tt.want)
			}
		})
	}
}

func TestSelect_EmptyConfig(t *testing.T) {
	t.Parallel()

	if got := Select(nil, false, TriggerPR); len(got) != 0 {
		t.Errorf("Select(nil) = %v, want none", got)
	}
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	matches := []Match{
		{Name: "a", Hook: config.Hook{Command: "first {branch}"}},
		{Name: "b", Hook: config.Hook{Command: "second"}},
		{Name: "c", Hook: config.Hook{Command: "third"}},
	}
	errBoom := errors.New("boom")

	var ran []string
	run := func(_ context.Context, dir, command string) error {
		if dir != "/wt" {
			t.Errorf("dir = %q, want /wt", dir)
		}
		ran = append(ran, command)
		if command == "second" {
			return errBoom
		}
		return nil
	}

	err := Run(context.Background(), run, matches, Context{Path: "/wt", Branch: "feat"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !strings.Contains(err.Error(), `hook "b" failed`) {
		t.Errorf("err = %v, want hook name", err)
	}
	want := "first 'feat',second,third"
	if got := strings.Join(ran, ","); got != want {
		t.Errorf("ran = %q, want %q", got, want)
	}
}

func TestShell(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := Shell(context.Background(), dir, "echo ok > marker"); err != nil {
		t.Fatalf("Shell failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "marker"))
	if err != nil {
		t.Fatalf("hook did not run in dir: %v", err)
	}
	if strings.TrimSpace(string(data)) != "ok" {
		t.Errorf("marker = %q", data)
	}

	if err := Shell(context.Background(), dir, "exit 3"); err == nil {
		t.Error("expected error for non-zero exit")
	}
}
