package workflow

import "slices"

// WorktreeType tells which kind of checkout the repository root is.
type WorktreeType string

const (
	WorktreeMain  WorktreeType = "main_worktree"
	WorktreePR    WorktreeType = "pr_worktree"
	WorktreeOther WorktreeType = "other"
)

// BranchType relates the checked out branch to the base branch.
type BranchType string

const (
	BranchMain     BranchType = "main"
	BranchOther    BranchType = "other"
	BranchDetached BranchType = "detached"
)

// CommitRelationship is the position of HEAD relative to the base ref.
type CommitRelationship string

const (
	RelSame      CommitRelationship = "same"
	RelAhead     CommitRelationship = "ahead"
	RelBehind    CommitRelationship = "behind"
	RelDivergent CommitRelationship = "divergent"
	RelAncestor  CommitRelationship = "ancestor"
)

// WorkingTreeStatus summarises staged and unstaged changes.
type WorkingTreeStatus string

const (
	StatusClean        WorkingTreeStatus = "clean"
	StatusStagedOnly   WorkingTreeStatus = "staged_only"
	StatusUnstagedOnly WorkingTreeStatus = "unstaged_only"
	StatusBoth         WorkingTreeStatus = "both"
)

// StatusFromFiles derives the working tree status from the two file lists.
func StatusFromFiles(staged, unstaged []string) WorkingTreeStatus {
	switch {
	case len(staged) > 0 && len(unstaged) > 0:
		return StatusBoth
	case len(staged) > 0:
		return StatusStagedOnly
	case len(unstaged) > 0:
		return StatusUnstagedOnly
	default:
		return StatusClean
	}
}

// Scenario is one of the twelve mutually exclusive repository states.
type Scenario string

const (
	MainCleanSame     Scenario = "main_clean_same"
	MainStagedSame    Scenario = "main_staged_same"
	MainUnstagedSame  Scenario = "main_unstaged_same"
	MainBothSame      Scenario = "main_both_same"
	MainCleanAhead    Scenario = "main_clean_ahead"
	MainChangesAhead  Scenario = "main_changes_ahead"
	BranchSameAsMain  Scenario = "branch_same_as_main"
	BranchAncestor    Scenario = "branch_ancestor"
	BranchDivergent   Scenario = "branch_divergent"
	BranchWithChanges Scenario = "branch_with_changes"
	DetachedHead      Scenario = "detached_head"
	PRWorktree        Scenario = "pr_worktree"
)

var allScenarios = []Scenario{
	MainCleanSame, MainStagedSame, MainUnstagedSame, MainBothSame,
	MainCleanAhead, MainChangesAhead,
	BranchSameAsMain, BranchAncestor, BranchDivergent, BranchWithChanges,
	DetachedHead, PRWorktree,
}

// Scenarios returns every scenario in declaration order.
func Scenarios() []Scenario {
	return slices.Clone(allScenarios)
}

// Valid reports whether s is one of the twelve scenarios.
func (s Scenario) Valid() bool {
	return slices.Contains(allScenarios, s)
}

// Commit is a local commit not yet on the base branch.
type Commit struct {
	Hash    string `json:"hash"`
	Subject string `json:"subject"`
}

// Worktree is one entry of the repository's worktree registry.
type Worktree struct {
	Path   string `json:"path"`
	Branch string `json:"branch,omitempty"`
	Head   string `json:"head"`
	IsMain bool   `json:"is_main"`
}

// GitState is the analysed state of one working tree.
// It is built once by Analyze and never modified.
type GitState struct {
	WorktreeType       WorktreeType       `json:"worktree_type"`
	BranchType         BranchType         `json:"branch_type"`
	CurrentBranch      string             `json:"current_branch,omitempty"` // empty when detached
	CommitRelationship CommitRelationship `json:"commit_relationship"`
	WorkingTreeStatus  WorkingTreeStatus  `json:"working_tree_status"`
	LocalCommits       []Commit           `json:"local_commits"`
	StagedFiles        []string           `json:"staged_files"`
	UnstagedFiles      []string           `json:"unstaged_files"`
	RepoRoot           string             `json:"repo_root"`
	RepoName           string             `json:"repo_name"`

	BaseBranch string `json:"base_branch"`
	BaseRef    string `json:"base_ref"` // resolved ref, e.g. origin/main
	HeadCommit string `json:"head_commit"`
	PRNumber   int    `json:"pr_number,omitempty"` // from a .pr<N> directory name
}

// BranchLabel returns the current branch name, or "unknown" when detached.
func (s *GitState) BranchLabel() string {
	if s == nil || s.CurrentBranch == "" {
		return "unknown"
	}
	return s.CurrentBranch
}

// ActionKey identifies a catalog action.
type ActionKey string

const (
	ActionEmptyCommit            ActionKey = "empty_commit"
	ActionCommitStaged           ActionKey = "commit_staged"
	ActionCommitAll              ActionKey = "commit_all"
	ActionStashAndEmpty          ActionKey = "stash_and_empty"
	ActionUseCommits             ActionKey = "use_commits"
	ActionPushThenBranch         ActionKey = "push_then_branch"
	ActionUseCommitsAndCommitAll ActionKey = "use_commits_and_commit_all"
	ActionUseCommitsAndStash     ActionKey = "use_commits_and_stash"
	ActionCreatePRForBranch      ActionKey = "create_pr_for_branch"
	ActionPRForBranchCommitAll   ActionKey = "pr_for_branch_commit_all"
	ActionPRForBranchStash       ActionKey = "pr_for_branch_stash"
	ActionBranchFromDetached     ActionKey = "branch_from_detached"
)

// CancelKey is the key automated callers use to select the cancel choice.
const CancelKey = "cancel"

// BranchFrom selects the start point of a new branch.
type BranchFrom string

const (
	FromHead BranchFrom = "head"
	FromBase BranchFrom = "origin_main"
)

// StateAction is a concrete action offered by the catalog.
type StateAction struct {
	Action        ActionKey  `json:"action"`
	BranchFrom    BranchFrom `json:"branch_from"`
	StashUnstaged bool       `json:"stash_unstaged,omitempty"`
}

// CreatesBranch reports whether the action creates a new branch.
// The pr_for_branch_* actions and create_pr_for_branch work on the current one.
func (a StateAction) CreatesBranch() bool {
	switch a.Action {
	case ActionCreatePRForBranch, ActionPRForBranchCommitAll, ActionPRForBranchStash:
		return false
	default:
		return true
	}
}

// Choice is one menu entry. A nil Action is the cancel choice.
type Choice struct {
	Label  string       `json:"label"`
	Action *StateAction `json:"action"`
}

// IsCancel reports whether the choice is the cancel entry.
func (c Choice) IsCancel() bool {
	return c.Action == nil
}

// Key returns the action key, or "cancel".
func (c Choice) Key() string {
	if c.Action == nil {
		return CancelKey
	}
	return string(c.Action.Action)
}

// ScenarioContext is what the user is shown for a scenario.
type ScenarioContext struct {
	Message    string   `json:"message"`
	SubMessage string   `json:"sub_message,omitempty"`
	Choices    []Choice `json:"choices"`
}

// Keys returns the keys of all choices in order, "cancel" included.
func (c *ScenarioContext) Keys() []string {
	keys := make([]string, 0, len(c.Choices))
	for _, ch := range c.Choices {
		keys = append(keys, ch.Key())
	}
	return keys
}
