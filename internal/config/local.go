package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repo override file at the repository root.
const LocalConfigFileName = ".wtpr.toml"

// LocalConfig holds per-repo configuration overrides from .wtpr.toml.
// Pointer fields and zero-value strings indicate "not set" (inherit from global).
type LocalConfig struct {
	BaseBranch string       `toml:"base_branch"`
	Remote     string       `toml:"remote"`
	Commit     CommitConfig `toml:"commit"`
	PR         LocalPR      `toml:"pr"`
	Forge      LocalForge   `toml:"forge"`

	// Merged by name into the global hooks; enabled = false removes one.
	Hooks map[string]Hook `toml:"hooks"`
}

// LocalPR holds local pr overrides
type LocalPR struct {
	Draft          *bool  `toml:"draft"`
	Push           *bool  `toml:"push"`
	Worktree       *bool  `toml:"worktree"`
	WorktreeFormat string `toml:"worktree_format"`
}

// LocalForge holds local forge overrides
type LocalForge struct {
	Default string `toml:"default"`
	Mode    string `toml:"mode"`
}

// LoadLocal reads a per-repo .wtpr.toml config from the given repo path.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	if err := validateEnum(local.Forge.Default, "forge.default", ValidForgeTypes); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if err := validateEnum(local.Forge.Mode, "forge.mode", ValidForgeModes); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if local.PR.WorktreeFormat != "" {
		if err := ValidateWorktreeFormat(local.PR.WorktreeFormat); err != nil {
			return nil, fmt.Errorf("%w in %s", err, configFile)
		}
	}
	for name, hook := range local.Hooks {
		if !hook.IsEnabled() {
			continue
		}
		if err := validateHook(name, hook); err != nil {
			return nil, fmt.Errorf("%w in %s", err, configFile)
		}
	}

	return &local, nil
}

// defaultLocalConfig is the template for wtpr config init --local
const defaultLocalConfig = `# wtpr local config (per-repo overrides)
# Place this file at the root of the repository.
# Settings here override the global config for this repo only.

# base_branch = "develop"
# remote = "upstream"

# [commit]
# message = "feat: {branch}"

# [pr]
# draft = true
# worktree = false
# worktree_format = "../{repo}.pr{number}"

# [forge]
# default = "gitlab"

# Hooks are merged by name with the global ones
# [hooks.deps]
# command = "make setup"
# on = ["worktree"]
#
# [hooks.global-hook-name]
# enabled = false
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}

// InitLocal writes the local template into repoPath.
// Returns the path to the created file.
func InitLocal(repoPath string, force bool) (string, error) {
	path := filepath.Join(repoPath, LocalConfigFileName)
	return path, writeTemplate(path, defaultLocalConfig, force)
}
