package workflow

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

func choice(label string, key ActionKey, from BranchFrom) Choice {
	return Choice{Label: label, Action: &StateAction{Action: key, BranchFrom: from}}
}

func cancelChoice() Choice {
	return Choice{Label: "Cancel"}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// GetScenarioContext returns the message and ordered choices for scenario.
// Choices go from least to most intrusive and end with cancel.
// Returns nil only for PRWorktree: the caller must take the existing-PR path.
func GetScenarioContext(scenario Scenario, state *GitState, baseBranch string) *ScenarioContext {
	if baseBranch == "" {
		baseBranch = "main"
	}
	branch := state.BranchLabel()
	against := baseBranch
	var commits int
	if state != nil {
		commits = len(state.LocalCommits)
		if state.BaseRef != "" {
			against = state.BaseRef
		}
	}

	emptyFromBase := choice(
		fmt.Sprintf("Create a new branch from %s with an empty commit", baseBranch),
		ActionEmptyCommit, FromBase)

	switch scenario {
	case PRWorktree:
		return nil

	case MainCleanSame:
		return &ScenarioContext{
			Message: fmt.Sprintf("On %s with a clean working tree. Ready to create a PR branch.", baseBranch),
			Choices: []Choice{emptyFromBase, cancelChoice()},
		}

	case MainStagedSame:
		return &ScenarioContext{
			Message: fmt.Sprintf("On %s with staged changes.", baseBranch),
			Choices: []Choice{
				choice("Commit staged changes to a new branch", ActionCommitStaged, FromBase),
				choice("Create a new branch with an empty commit, keep changes staged", ActionEmptyCommit, FromBase),
				cancelChoice(),
			},
		}

	case MainUnstagedSame:
		return &ScenarioContext{
			Message: fmt.Sprintf("On %s with unstaged changes.", baseBranch),
			Choices: []Choice{
				choice("Commit all changes to a new branch", ActionCommitAll, FromBase),
				choice("Create a new branch with an empty commit, keep changes uncommitted", ActionEmptyCommit, FromBase),
				choice("Stash changes, then create a new branch with an empty commit", ActionStashAndEmpty, FromBase),
				cancelChoice(),
			},
		}

	case MainBothSame:
		stagedOnly := choice("Commit staged changes to a new branch, stash the rest", ActionCommitStaged, FromBase)
		stagedOnly.Action.StashUnstaged = true
		return &ScenarioContext{
			Message: fmt.Sprintf("On %s with staged and unstaged changes.", baseBranch),
			Choices: []Choice{
				choice("Commit all changes to a new branch", ActionCommitAll, FromBase),
				stagedOnly,
				choice("Stash all changes, then create a new branch with an empty commit", ActionStashAndEmpty, FromBase),
				choice("Create a new branch with an empty commit, keep changes uncommitted", ActionEmptyCommit, FromBase),
				cancelChoice(),
			},
		}

	case MainCleanAhead:
		return &ScenarioContext{
			Message: fmt.Sprintf("On %s with %s not in %s.", baseBranch, plural(commits, "local commit"), against),
			Choices: []Choice{
				choice("Move local commits to a new branch", ActionUseCommits, FromHead),
				choice(fmt.Sprintf("Push %s, then branch from it", branch), ActionPushThenBranch, FromHead),
				emptyFromBase,
				cancelChoice(),
			},
		}

	case MainChangesAhead:
		return &ScenarioContext{
			Message: fmt.Sprintf("On %s with %s and uncommitted changes.", baseBranch, plural(commits, "local commit")),
			Choices: []Choice{
				choice("Move local commits to a new branch and commit all changes", ActionUseCommitsAndCommitAll, FromHead),
				choice("Move local commits to a new branch and stash changes", ActionUseCommitsAndStash, FromHead),
				choice("Move local commits to a new branch, keep changes uncommitted", ActionUseCommits, FromHead),
				cancelChoice(),
			},
		}

	case BranchSameAsMain:
		return &ScenarioContext{
			Message: fmt.Sprintf("Branch '%s' has no commits beyond %s.", branch, baseBranch),
			Choices: []Choice{emptyFromBase, cancelChoice()},
		}

	case BranchAncestor:
		return &ScenarioContext{
			Message: fmt.Sprintf("Branch '%s' is already merged into %s.", branch, baseBranch),
			Choices: []Choice{emptyFromBase, cancelChoice()},
		}

	case BranchDivergent:
		return &ScenarioContext{
			Message: fmt.Sprintf("Branch '%s' has %s not in %s.", branch, plural(commits, "commit"), baseBranch),
			Choices: []Choice{
				choice(fmt.Sprintf("Create PR for branch '%s'", branch), ActionCreatePRForBranch, FromHead),
				emptyFromBase,
				cancelChoice(),
			},
		}

	case BranchWithChanges:
		if commits > 0 {
			return &ScenarioContext{
				Message:    fmt.Sprintf("Branch '%s' has uncommitted changes.", branch),
				SubMessage: fmt.Sprintf("The branch already has %s not in %s.", plural(commits, "commit"), baseBranch),
				Choices: []Choice{
					choice(fmt.Sprintf("Commit all changes and create PR for '%s'", branch), ActionPRForBranchCommitAll, FromHead),
					choice(fmt.Sprintf("Stash changes and create PR for '%s'", branch), ActionPRForBranchStash, FromHead),
					choice(fmt.Sprintf("Stash changes, then create a new branch from %s with an empty commit", baseBranch), ActionStashAndEmpty, FromBase),
					cancelChoice(),
				},
			}
		}
		return &ScenarioContext{
			Message: fmt.Sprintf("Branch '%s' has uncommitted changes.", branch),
			Choices: []Choice{
				choice("Commit all changes to a new branch", ActionCommitAll, FromHead),
				choice(fmt.Sprintf("Stash changes, then create a new branch from %s with an empty commit", baseBranch), ActionStashAndEmpty, FromBase),
				choice(fmt.Sprintf("Create a new branch from %s with an empty commit, keep changes uncommitted", baseBranch), ActionEmptyCommit, FromBase),
				cancelChoice(),
			},
		}

	case DetachedHead:
		return &ScenarioContext{
			Message: fmt.Sprintf("HEAD is detached (branch: %s).", branch),
			Choices: []Choice{
				choice("Create a new branch from HEAD", ActionBranchFromDetached, FromHead),
				emptyFromBase,
				cancelChoice(),
			},
		}
	}

	return &ScenarioContext{
		Message: "Ready to create PR.",
		Choices: []Choice{emptyFromBase, cancelChoice()},
	}
}

// FindChoice picks the choice with the given key for automated callers.
// "cancel" selects the cancel choice. Unknown keys yield *InvalidActionError
// with fuzzy suggestions from the valid keys.
func FindChoice(scenario Scenario, sc *ScenarioContext, key string) (Choice, error) {
	key = strings.TrimSpace(key)
	if sc == nil {
		return Choice{}, &InvalidActionError{Key: key, Scenario: scenario}
	}
	for _, ch := range sc.Choices {
		if ch.Key() == key {
			return ch, nil
		}
	}

	valid := sc.Keys()
	return Choice{}, &InvalidActionError{
		Key:         key,
		Scenario:    scenario,
		Valid:       valid,
		Suggestions: suggest(key, valid),
	}
}

// suggest returns up to three valid keys that fuzzily match key.
func suggest(key string, valid []string) []string {
	if key == "" {
		return nil
	}
	var out []string
	for _, m := range fuzzy.Find(key, valid) {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}
