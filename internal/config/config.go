package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "WTPR_CONFIG"
	EnvBaseBranch = "WTPR_BASE_BRANCH"
	EnvRemote     = "WTPR_REMOTE"
)

// Defaults for empty values.
const (
	DefaultBaseBranch     = "main"
	DefaultRemote         = "origin"
	DefaultWorktreeFormat = "../{repo}.pr{number}"
	DefaultCommitMessage  = "wip: {branch}"
	DefaultEmptyMessage   = "chore: start {branch}"
	DefaultStashMessage   = "wtpr: {branch}"
	DefaultTokenEnv       = "GITHUB_TOKEN"
)

// CommitConfig holds message templates. {branch} expands to the target branch.
type CommitConfig struct {
	Message      string `toml:"message" json:"message"`
	EmptyMessage string `toml:"empty_message" json:"empty_message"`
	StashMessage string `toml:"stash_message" json:"stash_message"`
}

// PRConfig holds pull request publishing settings
type PRConfig struct {
	Draft          bool   `toml:"draft" json:"draft"`
	Push           bool   `toml:"push" json:"push"`
	Worktree       bool   `toml:"worktree" json:"worktree"`
	WorktreeFormat string `toml:"worktree_format" json:"worktree_format"`
}

// ForgeConfig holds forge selection settings
type ForgeConfig struct {
	Default  string            `toml:"default" json:"default"`     // "github" or "gitlab"
	Mode     string            `toml:"mode" json:"mode"`           // "cli" or "api"
	TokenEnv string            `toml:"token_env" json:"token_env"` // env var holding the API token
	Hosts    map[string]string `toml:"hosts" json:"hosts,omitempty"`
}

// Hook is a shell command run after a publish step, parsed from [hooks.NAME].
type Hook struct {
	Command     string   `toml:"command" json:"command"`
	Description string   `toml:"description,omitempty" json:"description,omitempty"`
	On          []string `toml:"on" json:"on"` // triggers: "pr", "worktree" or "all"
	Enabled     *bool    `toml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled reports whether the hook runs. Unset means enabled.
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// Config holds the wtpr configuration
type Config struct {
	BaseBranch string          `toml:"base_branch" json:"base_branch"`
	Remote     string          `toml:"remote" json:"remote"`
	Commit     CommitConfig    `toml:"commit" json:"commit"`
	PR         PRConfig        `toml:"pr" json:"pr"`
	Forge      ForgeConfig     `toml:"forge" json:"forge"`
	Hooks      map[string]Hook `toml:"hooks,omitempty" json:"hooks,omitempty"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		BaseBranch: DefaultBaseBranch,
		Remote:     DefaultRemote,
		Commit: CommitConfig{
			Message:      DefaultCommitMessage,
			EmptyMessage: DefaultEmptyMessage,
			StashMessage: DefaultStashMessage,
		},
		PR: PRConfig{
			Push:           true,
			Worktree:       true,
			WorktreeFormat: DefaultWorktreeFormat,
		},
		Forge: ForgeConfig{
			Default:  "github",
			Mode:     "cli",
			TokenEnv: DefaultTokenEnv,
		},
	}
}

// Path returns the path of the global config file.
// WTPR_CONFIG overrides ~/.config/wtpr/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wtpr", "config.toml"), nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}

// Load reads the global config file and applies environment overrides.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		applyEnv(&cfg, os.Getenv)
		return cfg, nil
	}
	return LoadFile(path, os.Getenv)
}

// LoadFile reads config from path. getenv supplies environment overrides.
func LoadFile(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if getenv != nil {
		applyEnv(&cfg, getenv)
	}

	if err := Validate(&cfg); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults restores defaults for values explicitly set to "".
func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.BaseBranch == "" {
		cfg.BaseBranch = d.BaseBranch
	}
	if cfg.Remote == "" {
		cfg.Remote = d.Remote
	}
	if cfg.Commit.Message == "" {
		cfg.Commit.Message = d.Commit.Message
	}
	if cfg.Commit.EmptyMessage == "" {
		cfg.Commit.EmptyMessage = d.Commit.EmptyMessage
	}
	if cfg.Commit.StashMessage == "" {
		cfg.Commit.StashMessage = d.Commit.StashMessage
	}
	if cfg.PR.WorktreeFormat == "" {
		cfg.PR.WorktreeFormat = d.PR.WorktreeFormat
	}
	if cfg.Forge.Default == "" {
		cfg.Forge.Default = d.Forge.Default
	}
	if cfg.Forge.Mode == "" {
		cfg.Forge.Mode = d.Forge.Mode
	}
	if cfg.Forge.TokenEnv == "" {
		cfg.Forge.TokenEnv = d.Forge.TokenEnv
	}
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvBaseBranch)); v != "" {
		cfg.BaseBranch = v
	}
	if v := strings.TrimSpace(getenv(EnvRemote)); v != "" {
		cfg.Remote = v
	}
}

// ErrConfigExists is returned by Init and InitLocal when the file exists and force is false.
var ErrConfigExists = errors.New("config file already exists")

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

const defaultConfig = `# wtpr configuration

# Branch new PR branches are compared against and started from
base_branch = "main"

# Remote whose tracking branch (e.g. origin/main) is preferred as base
remote = "origin"

# Message templates. {branch} expands to the target branch name.
[commit]
message = "wip: {branch}"
empty_message = "chore: start {branch}"
stash_message = "wtpr: {branch}"

# Publishing after the git steps ran
[pr]
draft = false
push = true        # push the branch with upstream before creating the PR
worktree = true    # move the new branch into its own PR worktree
# Placeholders: {repo}, {number}, {branch}
# Relative paths starting with ../ are siblings of the main worktree
worktree_format = "../{repo}.pr{number}"

[forge]
default = "github"          # github or gitlab
mode = "cli"                # cli (gh/glab) or api (GitHub / GitLab REST)
token_env = "GITHUB_TOKEN"  # env var read in api mode

# Host mappings for self-hosted GitHub Enterprise or GitLab instances
# [forge.hosts]
# "github.mycompany.com" = "github"
# "gitlab.internal.corp" = "gitlab"

# Hooks run after publishing. on = ["pr"] runs once the PR exists,
# on = ["worktree"] once the branch was moved into its PR worktree.
# Placeholders (shell-quoted): {path}, {branch}, {base}, {repo}, {number}, {url}
# [hooks.deps]
# command = "npm ci"
# description = "Install dependencies"
# on = ["worktree"]
`

// DefaultConfig returns the global configuration template content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at Path().
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, writeTemplate(path, defaultConfig, force)
}

func writeTemplate(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
