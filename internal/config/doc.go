// Package config handles loading and validation of wtpr configuration.
//
// # Configuration Sources (highest priority first)
//
//   - WTPR_BASE_BRANCH, WTPR_REMOTE env vars
//   - Per-repo .wtpr.toml at the repository root
//   - Global file ~/.config/wtpr/config.toml (WTPR_CONFIG overrides the path)
//   - Default values
//
// # Key Settings
//
//   - base_branch: branch PR branches start from (default: "main")
//   - remote: remote whose tracking branch is preferred as base (default: "origin")
//   - [commit]: message, empty_message and stash_message templates with {branch}
//   - [pr]: draft, push, worktree and worktree_format ("../{repo}.pr{number}")
//   - [forge]: default ("github" or "gitlab"), mode ("cli" or "api"), token_env
//
// The [forge.hosts] table maps custom domains to forge types for self-hosted
// instances.
//
// A missing file yields defaults. A file that exists but fails to parse or
// validate is an error.
package config
