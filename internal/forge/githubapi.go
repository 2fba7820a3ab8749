package forge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// ErrNoChanges is returned by CreatePR when head has no commits over base.
var ErrNoChanges = errors.New("no commits between base and head")

// GitHubAPI implements Forge for GitHub repositories over the REST API.
type GitHubAPI struct {
	client *github.Client
}

// NewGitHubAPI returns a REST forge authenticated with token. A host other
// than github.com is treated as a GitHub Enterprise server.
func NewGitHubAPI(token, host string) (*GitHubAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no API token", ErrNotAuthenticated)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)

	if host != "" && host != "github.com" {
		base := "https://" + host + "/api/v3/"
		upload := "https://" + host + "/api/uploads/"
		var err error
		if client, err = client.WithEnterpriseURLs(base, upload); err != nil {
			return nil, fmt.Errorf("configure GitHub Enterprise client for %s: %w", host, err)
		}
	}

	return &GitHubAPI{client: client}, nil
}

// Name returns "github"
func (g *GitHubAPI) Name() string {
	return "github"
}

// Check verifies the token by fetching the authenticated user.
func (g *GitHubAPI) Check(ctx context.Context) error {
	_, resp, err := g.client.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: token rejected", ErrNotAuthenticated)
		}
		return fmt.Errorf("GitHub API check failed: %w", err)
	}
	return nil
}

// GetPRForBranch looks up the most recent PR whose head is branch.
func (g *GitHubAPI) GetPRForBranch(ctx context.Context, repoURL, branch string) (*PRInfo, error) {
	owner, repo, err := ParseRepoFromURL(repoURL)
	if err != nil {
		return nil, err
	}

	prs, _, err := g.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		Head:        owner + ":" + branch,
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return prFromGitHub(prs[0]), nil
}

// CreatePR opens a pull request. An empty base targets the repository's
// default branch.
func (g *GitHubAPI) CreatePR(ctx context.Context, repoURL string, params CreatePRParams) (*CreatePRResult, error) {
	owner, repo, err := ParseRepoFromURL(repoURL)
	if err != nil {
		return nil, err
	}

	base := params.Base
	if base == "" {
		r, _, err := g.client.Repositories.Get(ctx, owner, repo)
		if err != nil {
			return nil, fmt.Errorf("get repository: %w", err)
		}
		base = r.GetDefaultBranch()
	}

	pr, _, err := g.client.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(params.Title),
		Body:  github.String(params.Body),
		Base:  github.String(base),
		Head:  github.String(params.Head),
		Draft: github.Bool(params.Draft),
	})
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "A pull request already exists") {
			return nil, fmt.Errorf("%w for %s", ErrPRExists, params.Head)
		}
		if strings.Contains(msg, "No commits between") {
			return nil, ErrNoChanges
		}
		return nil, fmt.Errorf("create pull request: %w", err)
	}

	return &CreatePRResult{Number: pr.GetNumber(), URL: pr.GetHTMLURL()}, nil
}

// FormatState returns a human-readable PR state
func (g *GitHubAPI) FormatState(state string) string {
	return formatState(state)
}

func prFromGitHub(pr *github.PullRequest) *PRInfo {
	info := &PRInfo{
		Number:  pr.GetNumber(),
		IsDraft: pr.GetDraft(),
		URL:     pr.GetHTMLURL(),
		Author:  pr.GetUser().GetLogin(),
	}

	switch {
	case pr.GetState() == "open":
		info.State = PRStateOpen
	case pr.GetMerged() || pr.MergedAt != nil:
		info.State = PRStateMerged
	default:
		info.State = PRStateClosed
	}
	return info
}

// ParseRepoFromURL extracts owner and repo from a GitHub remote URL.
// Supports git@host:owner/repo.git, ssh://git@host/owner/repo.git and
// https://host/owner/repo.git.
func ParseRepoFromURL(remoteURL string) (owner, repo string, err error) {
	url := strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")

	var path string
	switch {
	case strings.HasPrefix(url, "git@"):
		_, path, _ = strings.Cut(url, ":")
	case strings.Contains(url, "://"):
		_, rest, _ := strings.Cut(url, "://")
		_, path, _ = strings.Cut(rest, "/")
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("cannot parse owner/repo from remote URL %q", remoteURL)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
