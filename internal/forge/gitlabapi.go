package forge

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// GitLabAPI implements Forge for GitLab repositories over the REST API.
type GitLabAPI struct {
	client *gitlab.Client
}

// NewGitLabAPI returns a REST forge authenticated with a personal access
// token. A host other than gitlab.com is treated as a self-hosted instance.
func NewGitLabAPI(token, host string) (*GitLabAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no API token", ErrNotAuthenticated)
	}

	var opts []gitlab.ClientOptionFunc
	if host != "" && host != "gitlab.com" {
		opts = append(opts, gitlab.WithBaseURL("https://"+host))
	}
	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client for %s: %w", host, err)
	}
	return &GitLabAPI{client: client}, nil
}

// Name returns "gitlab"
func (g *GitLabAPI) Name() string {
	return "gitlab"
}

// Check verifies the token by fetching the current user.
func (g *GitLabAPI) Check(ctx context.Context) error {
	_, resp, err := g.client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: token rejected", ErrNotAuthenticated)
		}
		return fmt.Errorf("GitLab API check failed: %w", err)
	}
	return nil
}

// GetPRForBranch looks up the most recent MR whose source branch is branch.
func (g *GitLabAPI) GetPRForBranch(ctx context.Context, repoURL, branch string) (*PRInfo, error) {
	project := extractGitLabProject(repoURL)

	mrs, _, err := g.client.MergeRequests.ListProjectMergeRequests(project, &gitlab.ListProjectMergeRequestsOptions{
		SourceBranch: gitlab.Ptr(branch),
		State:        gitlab.Ptr("all"),
		ListOptions:  gitlab.ListOptions{PerPage: 1},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list merge requests: %w", err)
	}
	if len(mrs) == 0 {
		return nil, nil
	}
	mr := mrs[0]
	info := prFromGitLab(mr.IID, mr.State, mr.Title, mr.WebURL)
	if mr.Author != nil {
		info.Author = mr.Author.Username
	}
	return info, nil
}

// CreatePR opens a merge request. An empty base targets the project's
// default branch. Drafts get the "Draft: " title prefix.
func (g *GitLabAPI) CreatePR(ctx context.Context, repoURL string, params CreatePRParams) (*CreatePRResult, error) {
	project := extractGitLabProject(repoURL)

	base := params.Base
	if base == "" {
		p, _, err := g.client.Projects.GetProject(project, nil, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("get project: %w", err)
		}
		base = p.DefaultBranch
	}

	title := params.Title
	if params.Draft {
		title = "Draft: " + title
	}

	mr, resp, err := g.client.MergeRequests.CreateMergeRequest(project, &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(title),
		Description:  gitlab.Ptr(params.Body),
		SourceBranch: gitlab.Ptr(params.Head),
		TargetBranch: gitlab.Ptr(base),
	}, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return nil, fmt.Errorf("%w for %s", ErrPRExists, params.Head)
		}
		if strings.Contains(err.Error(), "No commits between") {
			return nil, ErrNoChanges
		}
		return nil, fmt.Errorf("create merge request: %w", err)
	}

	return &CreatePRResult{Number: mr.IID, URL: mr.WebURL}, nil
}

// FormatState returns a human-readable MR state
func (g *GitLabAPI) FormatState(state string) string {
	return formatState(state)
}

func prFromGitLab(iid int, state, title, webURL string) *PRInfo {
	info := &PRInfo{
		Number:  iid,
		IsDraft: strings.HasPrefix(title, "Draft:") || strings.HasPrefix(title, "WIP:"),
		URL:     webURL,
	}

	switch state {
	case "opened":
		info.State = PRStateOpen
	case "merged":
		info.State = PRStateMerged
	default:
		info.State = PRStateClosed
	}
	return info
}
