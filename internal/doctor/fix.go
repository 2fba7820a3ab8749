package doctor

import (
	"context"
	"fmt"

	"github.com/raphi011/wtpr/internal/git"
	"github.com/raphi011/wtpr/internal/log"
)

// Fix applies the fix actions of report in the repository containing dir.
// Returns the fixes that ran.
func Fix(ctx context.Context, dir string, report *Report) ([]string, error) {
	fixable := report.Fixable()
	if len(fixable) == 0 {
		return nil, nil
	}

	repo, err := git.Open(ctx, dir)
	if err != nil {
		return nil, err
	}

	var applied []string
	pruned := false
	for _, c := range fixable {
		switch c.FixAction {
		case FixPrune:
			if pruned {
				applied = append(applied, fmt.Sprintf("pruned %s", c.Name))
				continue
			}
			log.FromContext(ctx).Debug("fixing", "action", c.FixAction)
			if err := repo.PruneWorktrees(ctx); err != nil {
				return applied, err
			}
			pruned = true
			applied = append(applied, fmt.Sprintf("pruned %s", c.Name))
		default:
			return applied, fmt.Errorf("unknown fix action %q", c.FixAction)
		}
	}
	return applied, nil
}
