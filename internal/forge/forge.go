package forge

import (
	"context"
	"errors"
)

// PR states, normalized across forges.
const (
	PRStateOpen   = "OPEN"
	PRStateMerged = "MERGED"
	PRStateClosed = "CLOSED"
)

var (
	// ErrPRExists is returned by CreatePR when the head branch already has an open PR.
	ErrPRExists = errors.New("pull request already exists")

	// ErrNotAuthenticated is returned by Check when the forge has no usable credentials.
	ErrNotAuthenticated = errors.New("forge not authenticated")
)

// PRInfo describes the PR/MR attached to a branch.
type PRInfo struct {
	Number  int    `json:"number"`
	State   string `json:"state"` // OPEN, MERGED, CLOSED
	IsDraft bool   `json:"is_draft"`
	URL     string `json:"url"`
	Author  string `json:"author,omitempty"`
}

// CreatePRParams contains parameters for creating a PR/MR
type CreatePRParams struct {
	Title string
	Body  string
	Base  string // base branch (empty = repo default)
	Head  string // head/source branch
	Draft bool
}

// CreatePRResult contains the result of creating a PR/MR
type CreatePRResult struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// Forge represents a git hosting service (GitHub, GitLab, etc.)
type Forge interface {
	// Name returns the forge name ("github" or "gitlab")
	Name() string

	// Check verifies the forge is reachable and authenticated
	Check(ctx context.Context) error

	// GetPRForBranch fetches the most recent PR for a branch.
	// Returns nil without error when the branch has none.
	GetPRForBranch(ctx context.Context, repoURL, branch string) (*PRInfo, error)

	// CreatePR creates a new PR/MR
	CreatePR(ctx context.Context, repoURL string, params CreatePRParams) (*CreatePRResult, error)

	// FormatState returns a human-readable PR state
	FormatState(state string) string
}

// runner executes an external command and returns its stdout.
type runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func formatState(state string) string {
	switch state {
	case PRStateMerged:
		return "merged"
	case PRStateOpen:
		return "open"
	case PRStateClosed:
		return "closed"
	default:
		return ""
	}
}
