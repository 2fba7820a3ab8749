package config

import "maps"

// MergeLocal merges a local per-repo config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Shallow copy: Forge.Hosts and Forge.TokenEnv are global-only and
	// inherited as-is.
	merged := *global

	if local.BaseBranch != "" {
		merged.BaseBranch = local.BaseBranch
	}
	if local.Remote != "" {
		merged.Remote = local.Remote
	}

	if local.Commit.Message != "" {
		merged.Commit.Message = local.Commit.Message
	}
	if local.Commit.EmptyMessage != "" {
		merged.Commit.EmptyMessage = local.Commit.EmptyMessage
	}
	if local.Commit.StashMessage != "" {
		merged.Commit.StashMessage = local.Commit.StashMessage
	}

	if local.PR.Draft != nil {
		merged.PR.Draft = *local.PR.Draft
	}
	if local.PR.Push != nil {
		merged.PR.Push = *local.PR.Push
	}
	if local.PR.Worktree != nil {
		merged.PR.Worktree = *local.PR.Worktree
	}
	if local.PR.WorktreeFormat != "" {
		merged.PR.WorktreeFormat = local.PR.WorktreeFormat
	}

	if local.Forge.Default != "" {
		merged.Forge.Default = local.Forge.Default
	}
	if local.Forge.Mode != "" {
		merged.Forge.Mode = local.Forge.Mode
	}

	merged.Hooks = mergeHooks(global.Hooks, local.Hooks)

	return &merged
}

// mergeHooks merges local hooks into global hooks.
// Local hooks with the same name override global hooks.
// Local hooks with enabled=false remove the global hook.
func mergeHooks(global, local map[string]Hook) map[string]Hook {
	if len(local) == 0 {
		return global
	}
	merged := make(map[string]Hook, len(global)+len(local))
	maps.Copy(merged, global)

	for name, hook := range local {
		if !hook.IsEnabled() {
			delete(merged, name)
			continue
		}
		merged[name] = hook
	}
	return merged
}
