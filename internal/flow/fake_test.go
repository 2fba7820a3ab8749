package flow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/raphi011/wtpr/internal/forge"
	"github.com/raphi011/wtpr/internal/workflow"
)

// fakeRepo serves canned repository facts and records every mutating call.
// It implements workflow.Adapter, workflow.Mutator and Publisher.
type fakeRepo struct {
	root      string
	name      string
	branch    string
	detached  bool
	head      string
	rel       workflow.CommitRelationship
	commits   []workflow.Commit
	staged    []string
	unstaged  []string
	worktrees []workflow.Worktree
	remoteURL string
	subject   string

	failOn  string // first call with this prefix fails
	rootErr error

	mu    sync.Mutex
	calls []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		root:      "/src/myrepo",
		name:      "myrepo",
		branch:    "main",
		head:      "abc123",
		rel:       workflow.RelSame,
		remoteURL: "git@github.com:acme/myrepo.git",
		subject:   "Add login form",
		worktrees: []workflow.Worktree{
			{Path: "/src/myrepo", Branch: "main", Head: "abc123", IsMain: true},
		},
	}
}

func (f *fakeRepo) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		return fmt.Errorf("%s: simulated failure", call)
	}
	return nil
}

func (f *fakeRepo) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// workflow.Adapter

func (f *fakeRepo) Dir() string { return f.root }
func (f *fakeRepo) RepoRoot(context.Context) (string, error) { return f.root, f.rootErr }
func (f *fakeRepo) RepoName(context.Context) (string, error) { return f.name, nil }
func (f *fakeRepo) CurrentBranch(context.Context) (string, error) {
	if f.detached {
		return "", nil
	}
	return f.branch, nil
}
func (f *fakeRepo) IsDetachedHead(context.Context) (bool, error) { return f.detached, nil }
func (f *fakeRepo) HeadCommit(context.Context) (string, error)   { return f.head, nil }
func (f *fakeRepo) ResolveBase(_ context.Context, base string) (string, error) {
	return "origin/" + base, nil
}
func (f *fakeRepo) CommitRelationship(context.Context, string, bool) (workflow.CommitRelationship, error) {
	return f.rel, nil
}
func (f *fakeRepo) CommitsAhead(context.Context, string) ([]workflow.Commit, error) {
	return f.commits, nil
}
func (f *fakeRepo) StagedFiles(context.Context) ([]string, error)   { return f.staged, nil }
func (f *fakeRepo) UnstagedFiles(context.Context) ([]string, error) { return f.unstaged, nil }
func (f *fakeRepo) ListWorktrees(context.Context) ([]workflow.Worktree, error) {
	return f.worktrees, nil
}
func (f *fakeRepo) IsWorktree(context.Context, string) (bool, error) { return false, nil }
func (f *fakeRepo) SamePath(a, b string) bool                        { return a == b }

// workflow.Mutator

func (f *fakeRepo) StageAll(context.Context) error { return f.record("add --all") }
func (f *fakeRepo) Commit(_ context.Context, message string, allowEmpty bool) error {
	if allowEmpty {
		return f.record("commit --allow-empty " + message)
	}
	return f.record("commit " + message)
}
func (f *fakeRepo) Stash(_ context.Context, message string) (string, error) {
	if err := f.record("stash " + message); err != nil {
		return "", err
	}
	return "stash@{0}", nil
}
func (f *fakeRepo) CreateBranch(_ context.Context, name, startPoint string) error {
	return f.record("checkout -b " + name + " " + startPoint)
}
func (f *fakeRepo) Push(_ context.Context, remote, branch string, setUpstream bool) error {
	if setUpstream {
		return f.record("push -u " + remote + " " + branch)
	}
	return f.record("push " + remote + " " + branch)
}
func (f *fakeRepo) ValidBranchName(_ context.Context, name string) bool {
	return !strings.Contains(name, "..")
}
func (f *fakeRepo) BranchExists(_ context.Context, name string) bool { return name == f.branch }

// Publisher

func (f *fakeRepo) Checkout(_ context.Context, branch string) error {
	return f.record("checkout " + branch)
}
func (f *fakeRepo) CheckoutDetached(_ context.Context, commit string) error {
	return f.record("checkout --detach " + commit)
}
func (f *fakeRepo) AddWorktree(_ context.Context, path, branch string) error {
	return f.record("worktree add " + path + " " + branch)
}
func (f *fakeRepo) LastCommitSubject(context.Context) (string, error) { return f.subject, nil }
func (f *fakeRepo) RemoteURL(context.Context, string) (string, error) { return f.remoteURL, nil }

// fakeForge records PR requests.
type fakeForge struct {
	existing  *forge.PRInfo
	createErr error
	number    int

	created []forge.CreatePRParams
	lookups []string
}

func (f *fakeForge) Name() string                { return "github" }
func (f *fakeForge) Check(context.Context) error { return nil }
func (f *fakeForge) FormatState(s string) string { return s }
func (f *fakeForge) GetPRForBranch(_ context.Context, _, branch string) (*forge.PRInfo, error) {
	f.lookups = append(f.lookups, branch)
	return f.existing, nil
}
func (f *fakeForge) CreatePR(_ context.Context, _ string, params forge.CreatePRParams) (*forge.CreatePRResult, error) {
	f.created = append(f.created, params)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &forge.CreatePRResult{
		Number: f.number,
		URL:    fmt.Sprintf("https://github.com/acme/myrepo/pull/%d", f.number),
	}, nil
}

func newTestFlow(repo *fakeRepo, fg *fakeForge, chooser Chooser) *Flow {
	return &Flow{
		Adapter:   repo,
		Mutator:   repo,
		Publisher: repo,
		Chooser:   chooser,
		Forge:     func(string) (forge.Forge, error) { return fg, nil },
	}
}
