package config

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// resolverKey is the context key for ConfigResolver
type resolverKey struct{}

// ConfigResolver provides lazy per-repo config resolution with caching.
// It loads and merges per-repo .wtpr.toml files with the global config on demand.
type ConfigResolver struct {
	global *Config

	mu    sync.Mutex
	cache map[string]*Config // repoPath -> merged config
}

// NewResolver creates a new ConfigResolver backed by the given global config.
func NewResolver(global *Config) *ConfigResolver {
	return &ConfigResolver{
		global: global,
		cache:  make(map[string]*Config),
	}
}

// ConfigForRepo returns the effective config for a repo, merging any .wtpr.toml
// found at the repo path with the global config. Results are cached per repoPath.
// Safe for concurrent use.
func (r *ConfigResolver) ConfigForRepo(repoPath string) (*Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[repoPath]; ok {
		return cached, nil
	}

	local, err := LoadLocal(repoPath)
	if err != nil {
		return nil, err
	}

	merged := MergeLocal(r.global, local)
	if local != nil {
		// environment beats the repo file
		applyEnv(merged, os.Getenv)
	}
	if err := Validate(merged); err != nil {
		return nil, fmt.Errorf("%s: %w", repoPath, err)
	}
	r.cache[repoPath] = merged
	return merged, nil
}

// Global returns the global config (without any local overrides).
func (r *ConfigResolver) Global() *Config {
	return r.global
}

// WithResolver returns a new context with the ConfigResolver stored in it.
func WithResolver(ctx context.Context, r *ConfigResolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the ConfigResolver from context.
// Returns nil if no resolver is stored.
func ResolverFromContext(ctx context.Context) *ConfigResolver {
	if r, ok := ctx.Value(resolverKey{}).(*ConfigResolver); ok {
		return r
	}
	return nil
}

type workDirKey struct{}

// WithWorkDir returns a new context carrying the directory commands run in.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the working directory stored in ctx,
// falling back to os.Getwd.
func WorkDirFromContext(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey{}).(string); ok && dir != "" {
		return dir
	}
	wd, _ := os.Getwd()
	return wd
}
