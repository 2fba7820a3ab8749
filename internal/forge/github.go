package forge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/raphi011/wtpr/internal/cmd"
)

// GitHub implements Forge for GitHub repositories using the gh CLI.
type GitHub struct {
	run runner
}

// NewGitHub returns a GitHub forge that shells out to gh.
func NewGitHub() *GitHub {
	return &GitHub{run: cmd.OutputContext}
}

// Name returns "github"
func (g *GitHub) Name() string {
	return "github"
}

// Check verifies that gh CLI is available and authenticated
func (g *GitHub) Check(ctx context.Context) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return fmt.Errorf("gh not found: please install GitHub CLI (https://cli.github.com)")
	}

	if _, err := g.runner()(ctx, "", "gh", "auth", "status"); err != nil {
		msg := stderrOf(err)
		if msg == "" || strings.Contains(msg, "not logged") || strings.Contains(msg, "no accounts") {
			return fmt.Errorf("%w: please run 'gh auth login'", ErrNotAuthenticated)
		}
		return fmt.Errorf("gh auth check failed: %s", msg)
	}
	return nil
}

// GetPRForBranch fetches PR info for a branch using gh CLI
func (g *GitHub) GetPRForBranch(ctx context.Context, repoURL, branch string) (*PRInfo, error) {
	out, err := g.runner()(ctx, "", "gh", "pr", "list",
		"-R", repoURL,
		"--head", branch,
		"--state", "all",
		"--json", "number,state,isDraft,url,author",
		"--limit", "1")
	if err != nil {
		return nil, cliError("gh", err)
	}

	var prs []struct {
		Number  int    `json:"number"`
		State   string `json:"state"`
		IsDraft bool   `json:"isDraft"`
		URL     string `json:"url"`
		Author  struct {
			Login string `json:"login"`
		} `json:"author"`
	}
	if err := json.Unmarshal(out, &prs); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}

	pr := prs[0]
	return &PRInfo{
		Number:  pr.Number,
		State:   pr.State, // GitHub already uses OPEN, MERGED, CLOSED
		IsDraft: pr.IsDraft,
		URL:     pr.URL,
		Author:  pr.Author.Login,
	}, nil
}

// CreatePR creates a new PR using gh CLI
func (g *GitHub) CreatePR(ctx context.Context, repoURL string, params CreatePRParams) (*CreatePRResult, error) {
	args := []string{"pr", "create",
		"-R", repoURL,
		"--title", params.Title,
		"--body", params.Body,
	}
	if params.Base != "" {
		args = append(args, "--base", params.Base)
	}
	if params.Head != "" {
		args = append(args, "--head", params.Head)
	}
	if params.Draft {
		args = append(args, "--draft")
	}

	out, err := g.runner()(ctx, "", "gh", args...)
	if err != nil {
		if strings.Contains(stderrOf(err), "already exists") {
			return nil, fmt.Errorf("%w for %s", ErrPRExists, params.Head)
		}
		return nil, cliError("gh", err)
	}

	// gh pr create prints the PR URL as its last line
	return parseCreatedURL(string(out))
}

// FormatState returns a human-readable PR state
func (g *GitHub) FormatState(state string) string {
	return formatState(state)
}

func (g *GitHub) runner() runner {
	if g.run == nil {
		return cmd.OutputContext
	}
	return g.run
}

// parseCreatedURL extracts the PR number from the last path segment of url.
func parseCreatedURL(out string) (*CreatePRResult, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	url := strings.TrimSpace(lines[len(lines)-1])
	if url == "" {
		return nil, fmt.Errorf("no PR URL in output")
	}

	idx := strings.LastIndex(url, "/")
	number, err := strconv.Atoi(url[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to parse PR number from URL %q: %w", url, err)
	}
	return &CreatePRResult{Number: number, URL: url}, nil
}

// stderrOf returns the stderr captured by a failed command, if any.
func stderrOf(err error) string {
	var cmdErr *cmd.Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Stderr
	}
	return ""
}

func cliError(tool string, err error) error {
	if msg := stderrOf(err); msg != "" {
		return fmt.Errorf("%s command failed: %s", tool, msg)
	}
	return fmt.Errorf("%s command failed: %w", tool, err)
}
