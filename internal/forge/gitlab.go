package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/raphi011/wtpr/internal/cmd"
)

// GitLab implements Forge for GitLab repositories using the glab CLI.
type GitLab struct {
	run runner
}

// NewGitLab returns a GitLab forge that shells out to glab.
func NewGitLab() *GitLab {
	return &GitLab{run: cmd.OutputContext}
}

// Name returns "gitlab"
func (g *GitLab) Name() string {
	return "gitlab"
}

// Check verifies that glab CLI is available and authenticated
func (g *GitLab) Check(ctx context.Context) error {
	if _, err := exec.LookPath("glab"); err != nil {
		return fmt.Errorf("glab not found: please install GitLab CLI (https://gitlab.com/gitlab-org/cli)")
	}

	if _, err := g.runner()(ctx, "", "glab", "auth", "status"); err != nil {
		msg := stderrOf(err)
		if msg == "" || strings.Contains(msg, "not logged") {
			return fmt.Errorf("%w: please run 'glab auth login'", ErrNotAuthenticated)
		}
		return fmt.Errorf("glab auth check failed: %s", msg)
	}
	return nil
}

// GetPRForBranch fetches MR info for a branch using glab CLI
func (g *GitLab) GetPRForBranch(ctx context.Context, repoURL, branch string) (*PRInfo, error) {
	out, err := g.runner()(ctx, "", "glab", "mr", "list",
		"-R", extractGitLabProject(repoURL),
		"--source-branch", branch,
		"--state", "all",
		"-F", "json",
		"-P", "1")
	if err != nil {
		return nil, cliError("glab", err)
	}

	var mrs []struct {
		IID    int    `json:"iid"`
		State  string `json:"state"`
		Draft  bool   `json:"draft"`
		WebURL string `json:"web_url"`
		Author struct {
			Username string `json:"username"`
		} `json:"author"`
	}
	if err := json.Unmarshal(out, &mrs); err != nil {
		return nil, fmt.Errorf("failed to parse glab output: %w", err)
	}
	if len(mrs) == 0 {
		return nil, nil
	}

	mr := mrs[0]
	return &PRInfo{
		Number:  mr.IID,
		State:   normalizeGitLabState(mr.State),
		IsDraft: mr.Draft,
		URL:     mr.WebURL,
		Author:  mr.Author.Username,
	}, nil
}

// CreatePR creates a new MR using glab CLI
func (g *GitLab) CreatePR(ctx context.Context, repoURL string, params CreatePRParams) (*CreatePRResult, error) {
	args := []string{"mr", "create",
		"-R", extractGitLabProject(repoURL),
		"--title", params.Title,
		"--description", params.Body,
		"--yes",
	}
	if params.Base != "" {
		args = append(args, "--target-branch", params.Base)
	}
	if params.Head != "" {
		args = append(args, "--source-branch", params.Head)
	}
	if params.Draft {
		args = append(args, "--draft")
	}

	out, err := g.runner()(ctx, "", "glab", args...)
	if err != nil {
		if strings.Contains(stderrOf(err), "already exists") {
			return nil, fmt.Errorf("%w for %s", ErrPRExists, params.Head)
		}
		return nil, cliError("glab", err)
	}

	return parseCreatedURL(string(out))
}

// FormatState returns a human-readable MR state
func (g *GitLab) FormatState(state string) string {
	return formatState(state)
}

func (g *GitLab) runner() runner {
	if g.run == nil {
		return cmd.OutputContext
	}
	return g.run
}

// normalizeGitLabState converts GitLab state to normalized format
func normalizeGitLabState(state string) string {
	switch strings.ToLower(state) {
	case "opened":
		return PRStateOpen
	case "merged":
		return PRStateMerged
	case "closed":
		return PRStateClosed
	default:
		return strings.ToUpper(state)
	}
}

// extractGitLabProject extracts the project path from a GitLab URL
// e.g., "git@gitlab.com:group/project.git" -> "group/project"
// e.g., "https://gitlab.com/group/subgroup/project.git" -> "group/subgroup/project"
func extractGitLabProject(url string) string {
	url = strings.TrimSuffix(url, ".git")

	if strings.HasPrefix(url, "git@") {
		if _, path, ok := strings.Cut(url, ":"); ok {
			return path
		}
	}

	if _, rest, ok := strings.Cut(url, "://"); ok {
		if _, path, ok := strings.Cut(rest, "/"); ok {
			return path
		}
	}

	return url
}
