package config

import (
	"context"
	"os"
	"sync"
	"testing"
)

func TestConfigResolver_Global(t *testing.T) {
	t.Parallel()

	global := Default()
	r := NewResolver(&global)
	if r.Global() != &global {
		t.Error("Global() should return the global config")
	}
}

func TestConfigResolver_NoLocalConfig(t *testing.T) {
	t.Parallel()

	global := Default()
	r := NewResolver(&global)

	cfg, err := r.ConfigForRepo(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseBranch != "main" {
		t.Errorf("base_branch = %q", cfg.BaseBranch)
	}
}

func TestConfigResolver_WithLocalConfig(t *testing.T) {
	t.Parallel()

	global := Default()
	dir := t.TempDir()
	writeLocal(t, dir, `
[pr]
worktree_format = "../prs/{repo}-{number}"

[forge]
default = "gitlab"
`)

	r := NewResolver(&global)
	cfg, err := r.ConfigForRepo(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PR.WorktreeFormat != "../prs/{repo}-{number}" {
		t.Errorf("worktree_format = %q", cfg.PR.WorktreeFormat)
	}
	if cfg.Forge.Default != "gitlab" {
		t.Errorf("forge.default = %q, want gitlab", cfg.Forge.Default)
	}
}

func TestConfigResolver_MergedAPIMode(t *testing.T) {
	t.Parallel()

	global := Default()
	global.Forge.Mode = "api"
	dir := t.TempDir()
	writeLocal(t, dir, "[forge]\ndefault = \"gitlab\"\ntoken_env = \"GITLAB_TOKEN\"\n")

	cfg, err := NewResolver(&global).ConfigForRepo(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Forge.Mode != "api" || cfg.Forge.Default != "gitlab" || cfg.Forge.TokenEnv != "GITLAB_TOKEN" {
		t.Errorf("forge = %+v, want api mode on gitlab with GITLAB_TOKEN", cfg.Forge)
	}
}

func TestConfigResolver_Caching(t *testing.T) {
	t.Parallel()

	global := Default()
	dir := t.TempDir()
	writeLocal(t, dir, `base_branch = "develop"`)

	r := NewResolver(&global)

	var wg sync.WaitGroup
	results := make([]*Config, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := r.ConfigForRepo(dir)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results[i] = cfg
		}()
	}
	wg.Wait()

	for _, cfg := range results[1:] {
		if cfg != results[0] {
			t.Error("expected the same cached pointer for every call")
		}
	}
}

func TestResolverContext(t *testing.T) {
	t.Parallel()

	if ResolverFromContext(context.Background()) != nil {
		t.Error("expected nil without resolver")
	}

	global := Default()
	r := NewResolver(&global)
	ctx := WithResolver(context.Background(), r)
	if ResolverFromContext(ctx) != r {
		t.Error("resolver not returned from context")
	}
}

func TestWithWorkDir_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := WithWorkDir(context.Background(), "/custom/path")
		if got := WorkDirFromContext(ctx); got != "/custom/path" {
			t.Errorf("WorkDirFromContext = %q, want %q", got, "/custom/path")
		}
	})

	t.Run("fallback to getwd when not set", func(t *testing.T) {
		t.Parallel()
		wd, _ := os.Getwd()
		if got := WorkDirFromContext(context.Background()); got != wd {
			t.Errorf("WorkDirFromContext = %q, want %q (os.Getwd)", got, wd)
		}
	})
}
