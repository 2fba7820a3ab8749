package doctor

// Category groups checks in the report.
type Category string

const (
	// CategorySetup covers the tools and config wtpr needs.
	CategorySetup Category = "setup"
	// CategoryRepo covers the current repository: remote and base branch.
	CategoryRepo Category = "repo"
	// CategoryForge covers the PR hosting service.
	CategoryForge Category = "forge"
	// CategoryWorktree covers the repository's worktrees.
	CategoryWorktree Category = "worktree"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Check is one diagnostic result.
type Check struct {
	Category  Category `json:"category"`
	Name      string   `json:"name"`
	Status    Status   `json:"status"`
	Detail    string   `json:"detail,omitempty"`
	FixAction string   `json:"fix_action,omitempty"` // what --fix would do
}

// Report holds all checks in the order they ran.
type Report struct {
	Checks []Check `json:"checks"`
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Fixable returns the checks --fix can repair.
func (r *Report) Fixable() []Check {
	var fixable []Check
	for _, c := range r.Checks {
		if c.FixAction != "" {
			fixable = append(fixable, c)
		}
	}
	return fixable
}

// Count returns how many checks have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == s {
			n++
		}
	}
	return n
}
