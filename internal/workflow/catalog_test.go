package workflow

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func stateWithCommits(branch string, n int) *GitState {
	s := &GitState{CurrentBranch: branch, BaseBranch: "main", BaseRef: "origin/main"}
	for range n {
		s.LocalCommits = append(s.LocalCommits, Commit{Hash: "abc", Subject: "work"})
	}
	return s
}

func TestGetScenarioContext_Choices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scenario Scenario
		state    *GitState
		keys     []string
	}{
		{MainCleanSame, stateWithCommits("main", 0), []string{"empty_commit", "cancel"}},
		{MainStagedSame, stateWithCommits("main", 0), []string{"commit_staged", "empty_commit", "cancel"}},
		{MainUnstagedSame, stateWithCommits("main", 0), []string{"commit_all", "empty_commit", "stash_and_empty", "cancel"}},
		{MainBothSame, stateWithCommits("main", 0), []string{"commit_all", "commit_staged", "stash_and_empty", "empty_commit", "cancel"}},
		{MainCleanAhead, stateWithCommits("main", 2), []string{"use_commits", "push_then_branch", "empty_commit", "cancel"}},
		{MainChangesAhead, stateWithCommits("main", 2), []string{"use_commits_and_commit_all", "use_commits_and_stash", "use_commits", "cancel"}},
		{BranchSameAsMain, stateWithCommits("feature", 0), []string{"empty_commit", "cancel"}},
		{BranchAncestor, stateWithCommits("feature", 0), []string{"empty_commit", "cancel"}},
		{BranchDivergent, stateWithCommits("feature", 3), []string{"create_pr_for_branch", "empty_commit", "cancel"}},
		{BranchWithChanges, stateWithCommits("feature", 3), []string{"pr_for_branch_commit_all", "pr_for_branch_stash", "stash_and_empty", "cancel"}},
		{BranchWithChanges, stateWithCommits("feature", 0), []string{"commit_all", "stash_and_empty", "empty_commit", "cancel"}},
		{DetachedHead, stateWithCommits("", 0), []string{"branch_from_detached", "empty_commit", "cancel"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.scenario), func(t *testing.T) {
			t.Parallel()

			sc := GetScenarioContext(tt.scenario, tt.state, "main")
			if sc == nil {
				t.Fatal("expected context, got nil")
			}
			if got := sc.Keys(); !slices.Equal(got, tt.keys) {
				t.Errorf("keys = %v, want %v", got, tt.keys)
			}
			if sc.Message == "" {
				t.Error("message must not be empty")
			}
			last := sc.Choices[len(sc.Choices)-1]
			if !last.IsCancel() {
				t.Errorf("last choice = %q, want cancel", last.Label)
			}
			for _, ch := range sc.Choices[:len(sc.Choices)-1] {
				if ch.IsCancel() {
					t.Errorf("cancel must only be last, found %q earlier", ch.Label)
				}
				if ch.Label == "" {
					t.Error("choice without label")
				}
			}
		})
	}
}

func TestGetScenarioContext_EveryScenario(t *testing.T) {
	t.Parallel()

	for _, scenario := range Scenarios() {
		sc := GetScenarioContext(scenario, stateWithCommits("feature", 1), "main")
		if scenario == PRWorktree {
			if sc != nil {
				t.Errorf("pr_worktree context = %+v, want nil", sc)
			}
			continue
		}
		if sc == nil || sc.Message == "" || len(sc.Choices) < 2 {
			t.Errorf("%s: incomplete context %+v", scenario, sc)
			continue
		}
		keys := sc.Keys()
		seen := map[string]bool{}
		for _, k := range keys {
			if seen[k] {
				t.Errorf("%s: duplicate key %s", scenario, k)
			}
			seen[k] = true
		}
	}
}

func TestGetScenarioContext_PRWorktreeNil(t *testing.T) {
	t.Parallel()

	if sc := GetScenarioContext(PRWorktree, nil, "main"); sc != nil {
		t.Errorf("expected nil, got %+v", sc)
	}
	if sc := GetScenarioContext(PRWorktree, stateWithCommits("feature", 2), "develop"); sc != nil {
		t.Errorf("expected nil, got %+v", sc)
	}
}

func TestGetScenarioContext_Messages(t *testing.T) {
	t.Parallel()

	sc := GetScenarioContext(BranchAncestor, stateWithCommits("feature-branch", 0), "main")
	if !strings.Contains(sc.Message, "already merged") || !strings.Contains(sc.Message, "feature-branch") {
		t.Errorf("ancestor message = %q", sc.Message)
	}

	sc = GetScenarioContext(BranchSameAsMain, &GitState{}, "main")
	if !strings.Contains(sc.Message, "'unknown'") {
		t.Errorf("message without branch = %q, want 'unknown'", sc.Message)
	}

	sc = GetScenarioContext(DetachedHead, &GitState{}, "main")
	if !strings.Contains(sc.Message, "unknown") {
		t.Errorf("detached message = %q, want unknown", sc.Message)
	}
	if sc.Choices[0].Action.BranchFrom != FromHead {
		t.Errorf("branch_from_detached must branch from head")
	}

	sc = GetScenarioContext(BranchDivergent, stateWithCommits("login-form", 2), "main")
	if !strings.Contains(sc.Choices[0].Label, "login-form") {
		t.Errorf("divergent label = %q, want branch name", sc.Choices[0].Label)
	}

	sc = GetScenarioContext(BranchWithChanges, stateWithCommits("login-form", 2), "main")
	if !strings.Contains(sc.SubMessage, "commits not in main") {
		t.Errorf("sub message = %q", sc.SubMessage)
	}
	sc = GetScenarioContext(BranchWithChanges, stateWithCommits("login-form", 0), "main")
	if sc.SubMessage != "" {
		t.Errorf("sub message without local commits = %q, want empty", sc.SubMessage)
	}

	sc = GetScenarioContext(MainCleanAhead, stateWithCommits("main", 1), "main")
	if !strings.Contains(sc.Message, "1 local commit not in origin/main") {
		t.Errorf("ahead message = %q", sc.Message)
	}
}

func TestGetScenarioContext_BothStashUnstaged(t *testing.T) {
	t.Parallel()

	sc := GetScenarioContext(MainBothSame, stateWithCommits("main", 0), "main")
	var found bool
	for _, ch := range sc.Choices {
		if ch.Action != nil && ch.Action.Action == ActionCommitStaged {
			found = ch.Action.StashUnstaged
		}
	}
	if !found {
		t.Error("both-on-main must offer commit_staged with stashUnstaged")
	}
}

func TestGetScenarioContext_UnknownScenario(t *testing.T) {
	t.Parallel()

	sc := GetScenarioContext(Scenario("something_new"), stateWithCommits("main", 0), "main")
	if sc == nil {
		t.Fatal("unknown scenario must still yield a context")
	}
	if !strings.Contains(sc.Message, "Ready to create PR") {
		t.Errorf("fallback message = %q", sc.Message)
	}
	if got := sc.Keys(); !slices.Equal(got, []string{"empty_commit", "cancel"}) {
		t.Errorf("fallback keys = %v", got)
	}
}

func TestFindChoice(t *testing.T) {
	t.Parallel()

	sc := GetScenarioContext(MainUnstagedSame, stateWithCommits("main", 0), "main")

	ch, err := FindChoice(MainUnstagedSame, sc, "stash_and_empty")
	if err != nil {
		t.Fatalf("FindChoice failed: %v", err)
	}
	if ch.Action.Action != ActionStashAndEmpty {
		t.Errorf("got %s", ch.Key())
	}

	ch, err = FindChoice(MainUnstagedSame, sc, "cancel")
	if err != nil || !ch.IsCancel() {
		t.Errorf("FindChoice(cancel) = %+v, %v", ch, err)
	}

	_, err = FindChoice(MainUnstagedSame, sc, "comit_all")
	var invalid *InvalidActionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidActionError, got %v", err)
	}
	if !slices.Contains(invalid.Suggestions, "commit_all") {
		t.Errorf("suggestions = %v, want commit_all", invalid.Suggestions)
	}
	if !slices.Equal(invalid.Valid, sc.Keys()) {
		t.Errorf("valid = %v, want %v", invalid.Valid, sc.Keys())
	}
	if !strings.Contains(err.Error(), "did you mean commit_all") {
		t.Errorf("error = %q", err.Error())
	}

	// valid elsewhere but not offered here
	_, err = FindChoice(MainUnstagedSame, sc, "use_commits")
	if !errors.As(err, &invalid) {
		t.Errorf("expected *InvalidActionError for inapplicable key, got %v", err)
	}

	_, err = FindChoice(PRWorktree, nil, "empty_commit")
	if !errors.As(err, &invalid) {
		t.Errorf("expected *InvalidActionError for nil context, got %v", err)
	}
}
