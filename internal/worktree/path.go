// Package worktree names and locates PR worktrees.
//
// A PR worktree holds the branch of exactly one pull request and is
// recognised by its directory name: "<repo>.pr<number>".
package worktree

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultFormat places PR worktrees next to the main worktree.
const DefaultFormat = "../{repo}.pr{number}"

var prDirPattern = regexp.MustCompile(`\.pr([0-9]+)$`)

// ParsePRNumber extracts the PR number from a worktree directory name
// such as "myrepo.pr42". Only the base name of dir is inspected.
func ParsePRNumber(dir string) (int, bool) {
	m := prDirPattern.FindStringSubmatch(filepath.Base(dir))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// IsPRWorktreeDir reports whether dir follows the PR worktree naming convention.
func IsPRWorktreeDir(dir string) bool {
	_, ok := ParsePRNumber(dir)
	return ok
}

// Placeholders are the values substituted into a worktree path format.
type Placeholders struct {
	Repo   string // {repo}
	Branch string // {branch}, "/" replaced by "-"
	Number int    // {number}
}

// ResolvePath computes the worktree path based on format string.
// Supports:
//   - "{repo}.pr{number}" or "./..." = nested inside repo
//   - "../{repo}.pr{number}" = sibling to repo
//   - "~/worktrees/{repo}.pr{number}" = centralized folder
//   - "/absolute/{repo}.pr{number}" = absolute path
func ResolvePath(repoPath, format string, p Placeholders) string {
	safeBranch := strings.ReplaceAll(p.Branch, "/", "-")

	path := strings.ReplaceAll(format, "{repo}", p.Repo)
	path = strings.ReplaceAll(path, "{branch}", safeBranch)
	path = strings.ReplaceAll(path, "{number}", strconv.Itoa(p.Number))

	switch {
	case strings.HasPrefix(path, "../"):
		return filepath.Join(filepath.Dir(repoPath), path[3:])

	case strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			// keep the ~ prefix so error messages show the configured path
			return path
		}
		return filepath.Join(home, path[2:])

	case strings.HasPrefix(path, "/"):
		return path

	default:
		path = strings.TrimPrefix(path, "./")
		return filepath.Join(repoPath, path)
	}
}
