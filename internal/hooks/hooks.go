package hooks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/raphi011/wtpr/internal/config"
	"github.com/raphi011/wtpr/internal/log"
)

// Trigger is the publish step after which a hook runs.
type Trigger string

const (
	TriggerPR       Trigger = "pr"
	TriggerWorktree Trigger = "worktree"
)

// Context holds the values for placeholder substitution
type Context struct {
	Path    string // directory the hook runs in
	Branch  string
	Base    string
	Repo    string
	Number  int
	URL     string
	Trigger Trigger
}

// Match is a configured hook selected for a trigger.
type Match struct {
	Name string
	Hook config.Hook
}

// Runner executes a substituted command in dir.
type Runner func(ctx context.Context, dir, command string) error

// Select returns the enabled hooks whose "on" list contains trigger (or
// "all"), ordered by name. Returns nil when noHook is set.
func Select(hooks map[string]config.Hook, noHook bool, trigger Trigger) []Match {
	if noHook {
		return nil
	}

	var matches []Match
	for name, hook := range hooks {
		if hook.IsEnabled() && hookMatches(hook, trigger) {
			matches = append(matches, Match{Name: name, Hook: hook})
		}
	}
	slices.SortFunc(matches, func(a, b Match) int {
		return strings.Compare(a.Name, b.Name)
	})
	return matches
}

func hookMatches(hook config.Hook, trigger Trigger) bool {
	for _, on := range hook.On {
		if on == "all" || on == string(trigger) {
			return true
		}
	}
	return false
}

// Run runs every match in hctx.Path. All hooks run even if one fails; the
// failures are returned joined. A nil run uses Shell.
func Run(ctx context.Context, run Runner, matches []Match, hctx Context) error {
	if run == nil {
		run = Shell
	}
	l := log.FromContext(ctx)

	var errs []error
	for _, m := range matches {
		command := SubstitutePlaceholders(m.Hook.Command, hctx)
		l.Printf("Running hook '%s'...\n", m.Name)
		if err := run(ctx, hctx.Path, command); err != nil {
			errs = append(errs, fmt.Errorf("hook %q failed: %w", m.Name, err))
			continue
		}
		if m.Hook.Description != "" {
			l.Printf("  ✓ %s\n", m.Hook.Description)
		}
	}
	return errors.Join(errs...)
}

// Shell runs command with sh -c in dir. Its output goes to the logger so
// stdout stays reserved for wtpr's own data.
func Shell(ctx context.Context, dir, command string) error {
	w := log.FromContext(ctx).Writer()
	c := exec.CommandContext(ctx, "sh", "-c", command)
	c.Dir = dir
	c.Stdout = w
	c.Stderr = w
	return c.Run()
}

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values from
// hctx. A zero PR number expands to an empty string.
func SubstitutePlaceholders(command string, hctx Context) string {
	number := ""
	if hctx.Number > 0 {
		number = strconv.Itoa(hctx.Number)
	}
	r := strings.NewReplacer(
		"{path}", shellQuote(hctx.Path),
		"{branch}", shellQuote(hctx.Branch),
		"{base}", shellQuote(hctx.Base),
		"{repo}", shellQuote(hctx.Repo),
		"{number}", shellQuote(number),
		"{url}", shellQuote(hctx.URL),
		"{trigger}", shellQuote(string(hctx.Trigger)),
	)
	return r.Replace(command)
}

// shellQuote escapes a string for safe use in shell commands.
// e.g., "it's" becomes 'it'\''s'
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}
