package flow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/wtpr/internal/workflow"
)

// Entry is the analyzed state of one worktree of a repository.
type Entry struct {
	Path         string                      `json:"path"`
	Branch       string                      `json:"branch,omitempty"`
	IsMain       bool                        `json:"is_main"`
	PRNumber     int                         `json:"pr_number,omitempty"`
	Scenario     workflow.Scenario           `json:"scenario"`
	Status       workflow.WorkingTreeStatus  `json:"status"`
	Relationship workflow.CommitRelationship `json:"relationship"`
	Ahead        int                         `json:"ahead"`
}

// Warning is a worktree that could not be analyzed.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// OpenFunc opens the adapter for the worktree at path.
type OpenFunc func(ctx context.Context, path string) (workflow.Adapter, error)

// maxConcurrentAnalyses bounds concurrent git operations.
const maxConcurrentAnalyses = 8

// List analyzes every worktree of the repository behind a concurrently.
// Entries keep git's worktree order; worktrees that fail to analyze are
// reported as warnings.
func List(ctx context.Context, a workflow.Adapter, open OpenFunc, baseBranch string) ([]Entry, []Warning, error) {
	worktrees, err := a.ListWorktrees(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list worktrees: %w", err)
	}

	type result struct {
		entry *Entry
		warn  *Warning
	}
	results := make([]result, len(worktrees))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAnalyses)

	for i, wt := range worktrees {
		g.Go(func() error {
			entry, err := analyzeWorktree(ctx, open, wt, baseBranch)
			if err != nil {
				results[i] = result{warn: &Warning{Path: wt.Path, Err: err}}
				return nil // warnings are non-fatal
			}
			results[i] = result{entry: entry}
			return nil
		})
	}
	_ = g.Wait() // always nil

	entries := make([]Entry, 0, len(worktrees))
	var warnings []Warning
	for _, r := range results {
		if r.entry != nil {
			entries = append(entries, *r.entry)
		}
		if r.warn != nil {
			warnings = append(warnings, *r.warn)
		}
	}
	return entries, warnings, nil
}

func analyzeWorktree(ctx context.Context, open OpenFunc, wt workflow.Worktree, baseBranch string) (*Entry, error) {
	a, err := open(ctx, wt.Path)
	if err != nil {
		return nil, err
	}
	state, err := workflow.Analyze(ctx, a, baseBranch)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Path:         wt.Path,
		Branch:       state.CurrentBranch,
		IsMain:       wt.IsMain,
		PRNumber:     state.PRNumber,
		Scenario:     workflow.DetectScenario(state),
		Status:       state.WorkingTreeStatus,
		Relationship: state.CommitRelationship,
		Ahead:        len(state.LocalCommits),
	}, nil
}
