package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidForgeTypes = []string{"github", "gitlab"}
	ValidForgeModes = []string{"cli", "api"}
	ValidHookOn     = []string{"pr", "worktree", "all"}
)

// Validate checks an effective (defaults applied) configuration.
func Validate(cfg *Config) error {
	var errs []error
	if strings.TrimSpace(cfg.BaseBranch) == "" {
		errs = append(errs, errors.New("base_branch must not be empty"))
	}
	if strings.TrimSpace(cfg.Remote) == "" {
		errs = append(errs, errors.New("remote must not be empty"))
	}
	if err := validateEnum(cfg.Forge.Default, "forge.default", ValidForgeTypes); err != nil {
		errs = append(errs, err)
	}
	if err := validateEnum(cfg.Forge.Mode, "forge.mode", ValidForgeModes); err != nil {
		errs = append(errs, err)
	}
	for host, forgeType := range cfg.Forge.Hosts {
		if err := validateEnum(forgeType, fmt.Sprintf("forge.hosts[%q]", host), ValidForgeTypes); err != nil {
			errs = append(errs, err)
		}
	}
	if err := ValidateWorktreeFormat(cfg.PR.WorktreeFormat); err != nil {
		errs = append(errs, err)
	}
	for name, hook := range cfg.Hooks {
		if err := validateHook(name, hook); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateHook(name string, hook Hook) error {
	if strings.TrimSpace(hook.Command) == "" {
		return fmt.Errorf("hooks.%s: command must not be empty", name)
	}
	for _, on := range hook.On {
		if err := validateEnum(on, fmt.Sprintf("hooks.%s.on", name), ValidHookOn); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWorktreeFormat requires the {number} placeholder so every PR gets
// its own directory.
func ValidateWorktreeFormat(format string) error {
	if !strings.Contains(format, "{number}") {
		return fmt.Errorf("invalid pr.worktree_format %q: must contain {number}", format)
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
