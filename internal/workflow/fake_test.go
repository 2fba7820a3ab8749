package workflow

import (
	"context"
	"fmt"
	"strings"
)

// fakeAdapter serves canned repository facts.
type fakeAdapter struct {
	root      string
	dir       string
	name      string
	branch    string
	detached  bool
	head      string
	baseRef   string
	rel       CommitRelationship
	commits   []Commit
	staged    []string
	unstaged  []string
	worktrees []Worktree
	linked    map[string]bool

	rootErr error
	baseErr error
	listErr error

	gotOnBase bool
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		root:    "/src/myrepo",
		name:    "myrepo",
		branch:  "main",
		head:    "abc123",
		baseRef: "origin/main",
		rel:     RelSame,
		worktrees: []Worktree{
			{Path: "/src/myrepo", Branch: "main", Head: "abc123", IsMain: true},
		},
	}
}

func (f *fakeAdapter) Dir() string {
	if f.dir != "" {
		return f.dir
	}
	return f.root
}
func (f *fakeAdapter) RepoRoot(ctx context.Context) (string, error) { return f.root, f.rootErr }
func (f *fakeAdapter) RepoName(ctx context.Context) (string, error) { return f.name, nil }
func (f *fakeAdapter) CurrentBranch(ctx context.Context) (string, error) {
	if f.detached {
		return "", nil
	}
	return f.branch, nil
}
func (f *fakeAdapter) IsDetachedHead(ctx context.Context) (bool, error) { return f.detached, nil }
func (f *fakeAdapter) HeadCommit(ctx context.Context) (string, error) { return f.head, nil }
func (f *fakeAdapter) ResolveBase(ctx context.Context, base string) (string, error) {
	return f.baseRef, f.baseErr
}
func (f *fakeAdapter) CommitRelationship(ctx context.Context, baseRef string, onBase bool) (CommitRelationship, error) {
	f.gotOnBase = onBase
	return f.rel, nil
}
func (f *fakeAdapter) CommitsAhead(ctx context.Context, baseRef string) ([]Commit, error) {
	return f.commits, nil
}
func (f *fakeAdapter) StagedFiles(ctx context.Context) ([]string, error) { return f.staged, nil }
func (f *fakeAdapter) UnstagedFiles(ctx context.Context) ([]string, error) { return f.unstaged, nil }
func (f *fakeAdapter) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	return f.worktrees, f.listErr
}
func (f *fakeAdapter) IsWorktree(ctx context.Context, path string) (bool, error) {
	return f.linked[path], nil
}
func (f *fakeAdapter) SamePath(a, b string) bool { return a == b }

// fakeMutator records every mutation as a short string.
type fakeMutator struct {
	calls    []string
	failOn   string // first call with this prefix fails
	failErr  error
	invalid  map[string]bool
	existing map[string]bool
	stashRef string
}

func (f *fakeMutator) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		if f.failErr != nil {
			return f.failErr
		}
		return fmt.Errorf("%s failed", call)
	}
	return nil
}

func (f *fakeMutator) StageAll(ctx context.Context) error { return f.record("add --all") }
func (f *fakeMutator) Commit(ctx context.Context, message string, allowEmpty bool) error {
	if allowEmpty {
		return f.record("commit --allow-empty " + message)
	}
	return f.record("commit " + message)
}
func (f *fakeMutator) Stash(ctx context.Context, message string) (string, error) {
	if err := f.record("stash " + message); err != nil {
		return "", err
	}
	return f.stashRef, nil
}
func (f *fakeMutator) CreateBranch(ctx context.Context, name, startPoint string) error {
	return f.record("checkout -b " + name + " " + startPoint)
}
func (f *fakeMutator) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	return f.record("push " + remote + " " + branch)
}
func (f *fakeMutator) ValidBranchName(ctx context.Context, name string) bool {
	return !f.invalid[name]
}
func (f *fakeMutator) BranchExists(ctx context.Context, name string) bool {
	return f.existing[name]
}
