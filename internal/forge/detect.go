package forge

import (
	"fmt"
	"net/url"
	"strings"
)

// Modes for talking to a forge.
const (
	ModeCLI = "cli"
	ModeAPI = "api"
)

// Options selects and configures a forge.
type Options struct {
	Default string            // forge used when the remote URL is not recognized
	Mode    string            // ModeCLI or ModeAPI
	Token   string            // API token for ModeAPI
	Hosts   map[string]string // host -> forge name, for self-hosted instances
}

// New returns the forge serving remoteURL.
func New(remoteURL string, opts Options) (Forge, error) {
	name := DetectName(remoteURL, opts.Hosts, opts.Default)

	switch opts.Mode {
	case "", ModeCLI:
		return ByName(name), nil
	case ModeAPI:
		switch name {
		case "github":
			return NewGitHubAPI(opts.Token, extractHost(remoteURL))
		case "gitlab":
			return NewGitLabAPI(opts.Token, extractHost(remoteURL))
		default:
			return nil, fmt.Errorf("forge mode %q not supported for %s", ModeAPI, name)
		}
	default:
		return nil, fmt.Errorf("unknown forge mode %q", opts.Mode)
	}
}

// Detect returns the appropriate CLI Forge implementation based on the remote URL.
// If hostMap is provided, checks for exact domain matches first.
// Falls back to pattern matching, then defaults to GitHub.
func Detect(remoteURL string, hostMap map[string]string) Forge {
	return ByName(DetectName(remoteURL, hostMap, ""))
}

// DetectName returns the forge name for remoteURL: an exact hostMap entry,
// then URL patterns, then fallback (github when empty).
func DetectName(remoteURL string, hostMap map[string]string, fallback string) string {
	if len(hostMap) > 0 {
		if name, ok := hostMap[extractHost(remoteURL)]; ok {
			return strings.ToLower(name)
		}
	}

	switch {
	case isGitLab(remoteURL):
		return "gitlab"
	case isGitHub(remoteURL):
		return "github"
	case fallback != "":
		return strings.ToLower(fallback)
	default:
		return "github"
	}
}

// extractHost parses the hostname from a git remote URL.
// Handles SSH format (git@host:path) and HTTPS format (https://host/path).
func extractHost(remoteURL string) string {
	// SSH format: git@github.com:user/repo.git
	if rest, ok := strings.CutPrefix(remoteURL, "git@"); ok {
		if idx := strings.Index(rest, ":"); idx > 0 {
			return rest[:idx]
		}
	}

	for _, scheme := range []string{"http://", "https://", "ssh://"} {
		if strings.HasPrefix(remoteURL, scheme) {
			if parsed, err := url.Parse(remoteURL); err == nil {
				return parsed.Hostname()
			}
		}
	}

	return ""
}

// ByName returns a CLI Forge implementation by name.
// Supported names: "github", "gitlab"
// Returns GitHub as default for unknown names.
func ByName(name string) Forge {
	switch strings.ToLower(name) {
	case "gitlab":
		return NewGitLab()
	default:
		return NewGitHub()
	}
}

// isGitLab checks if a URL points to a GitLab instance
func isGitLab(url string) bool {
	url = strings.ToLower(url)

	// gitlab.com and self-hosted gitlab.* hosts
	if strings.Contains(url, "gitlab.") {
		return true
	}

	// Some orgs host at company.com/gitlab/
	return strings.Contains(url, "/gitlab/")
}

// isGitHub checks if a URL points to GitHub
func isGitHub(url string) bool {
	return strings.Contains(strings.ToLower(url), "github.")
}
