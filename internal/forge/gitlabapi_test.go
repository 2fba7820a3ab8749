package forge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xanzy/go-gitlab"
)

// newTestGitLabAPI creates a GitLabAPI pointing to a test server.
func newTestGitLabAPI(t *testing.T, handler http.Handler) *GitLabAPI {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gitlab.NewClient("test-token", gitlab.WithBaseURL(server.URL+"/api/v4"))
	if err != nil {
		t.Fatalf("create gitlab client: %v", err)
	}
	return &GitLabAPI{client: client}
}

// mergeRequestsHandler answers MR list/create requests and the project
// lookup, 404 for anything else.
func mergeRequestsHandler(t *testing.T, list []*gitlab.MergeRequest, created *map[string]any, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/merge_requests"):
			if got := r.URL.Query().Get("source_branch"); got != "feat" {
				t.Errorf("source_branch = %q, want feat", got)
			}
			json.NewEncoder(w).Encode(list)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/merge_requests"):
			if created != nil {
				json.NewDecoder(r.Body).Decode(created)
			}
			if status != 0 {
				w.WriteHeader(status)
				json.NewEncoder(w).Encode(map[string]any{"message": []string{"Another open merge request already exists for this source branch"}})
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(&gitlab.MergeRequest{IID: 12, WebURL: "https://gitlab.com/team/repo/-/merge_requests/12"})
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/projects/team/repo"):
			json.NewEncoder(w).Encode(&gitlab.Project{DefaultBranch: "develop"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestNewGitLabAPI(t *testing.T) {
	t.Parallel()

	if _, err := NewGitLabAPI("", "gitlab.com"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("NewGitLabAPI(\"\") error = %v, want ErrNotAuthenticated", err)
	}

	api, err := NewGitLabAPI("token", "git.corp.example")
	if err != nil {
		t.Fatalf("NewGitLabAPI() error = %v", err)
	}
	if got := api.client.BaseURL().String(); got != "https://git.corp.example/api/v4/" {
		t.Errorf("self-hosted BaseURL = %q", got)
	}
}

func TestGitLabAPI_CreatePR(t *testing.T) {
	t.Parallel()

	t.Run("draft with default base", func(t *testing.T) {
		t.Parallel()

		var req map[string]any
		api := newTestGitLabAPI(t, mergeRequestsHandler(t, nil, &req, 0))

		res, err := api.CreatePR(context.Background(), "git@gitlab.com:team/repo.git", CreatePRParams{
			Title: "Add feature",
			Body:  "Details",
			Head:  "feat",
			Draft: true,
		})
		if err != nil {
			t.Fatalf("CreatePR() error = %v", err)
		}
		if res.Number != 12 || res.URL != "https://gitlab.com/team/repo/-/merge_requests/12" {
			t.Errorf("CreatePR() = %+v", res)
		}
		if req["title"] != "Draft: Add feature" || req["target_branch"] != "develop" || req["source_branch"] != "feat" {
			t.Errorf("request = %v", req)
		}
	})

	t.Run("merge request exists", func(t *testing.T) {
		t.Parallel()

		api := newTestGitLabAPI(t, mergeRequestsHandler(t, nil, nil, http.StatusConflict))
		_, err := api.CreatePR(context.Background(), "https://gitlab.com/team/repo.git", CreatePRParams{Title: "t", Base: "main", Head: "feat"})
		if !errors.Is(err, ErrPRExists) {
			t.Errorf("CreatePR() error = %v, want ErrPRExists", err)
		}
	})
}

func TestGitLabAPI_GetPRForBranch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mr   *gitlab.MergeRequest
		want *PRInfo
	}{
		{
			name: "open draft",
			mr: &gitlab.MergeRequest{
				IID:    3,
				State:  "opened",
				Title:  "Draft: login",
				WebURL: "https://gitlab.com/team/repo/-/merge_requests/3",
				Author: &gitlab.BasicUser{Username: "dev"},
			},
			want: &PRInfo{Number: 3, State: PRStateOpen, IsDraft: true, URL: "https://gitlab.com/team/repo/-/merge_requests/3", Author: "dev"},
		},
		{
			name: "merged",
			mr:   &gitlab.MergeRequest{IID: 4, State: "merged", Title: "login"},
			want: &PRInfo{Number: 4, State: PRStateMerged},
		},
		{
			name: "closed",
			mr:   &gitlab.MergeRequest{IID: 5, State: "closed"},
			want: &PRInfo{Number: 5, State: PRStateClosed},
		},
		{
			name: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			list := []*gitlab.MergeRequest{}
			if tt.mr != nil {
				list = append(list, tt.mr)
			}
			api := newTestGitLabAPI(t, mergeRequestsHandler(t, list, nil, 0))

			got, err := api.GetPRForBranch(context.Background(), "git@gitlab.com:team/repo.git", "feat")
			if err != nil {
				t.Fatalf("GetPRForBranch() error = %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("GetPRForBranch() = %+v, want nil", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("GetPRForBranch() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGitLabAPI_Check(t *testing.T) {
	t.Parallel()

	ok := newTestGitLabAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&gitlab.User{Username: "dev"})
	}))
	if err := ok.Check(context.Background()); err != nil {
		t.Errorf("Check() error = %v", err)
	}

	denied := newTestGitLabAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"message": "401 Unauthorized"})
	}))
	if err := denied.Check(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Check() error = %v, want ErrNotAuthenticated", err)
	}
}
