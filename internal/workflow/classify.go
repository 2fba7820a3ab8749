package workflow

// DetectScenario maps an analysed state to exactly one scenario.
// It is pure and total: malformed input falls back to MainCleanSame.
func DetectScenario(s *GitState) Scenario {
	if s == nil {
		return MainCleanSame
	}

	if s.WorktreeType == WorktreePR {
		return PRWorktree
	}

	switch s.BranchType {
	case BranchDetached:
		return DetachedHead
	case BranchMain:
		return detectMainScenario(s)
	case BranchOther:
		return detectBranchScenario(s)
	}

	return MainCleanSame
}

// detectMainScenario: behind counts as same and divergent as ahead,
// local commits take precedence over missing upstream ones.
func detectMainScenario(s *GitState) Scenario {
	switch s.CommitRelationship {
	case RelAhead, RelDivergent:
		if s.WorkingTreeStatus == StatusClean {
			return MainCleanAhead
		}
		return MainChangesAhead
	}

	switch s.WorkingTreeStatus {
	case StatusStagedOnly:
		return MainStagedSame
	case StatusUnstagedOnly:
		return MainUnstagedSame
	case StatusBoth:
		return MainBothSame
	default:
		return MainCleanSame
	}
}

// detectBranchScenario: any dirt wins over ancestry.
func detectBranchScenario(s *GitState) Scenario {
	if s.WorkingTreeStatus != StatusClean && s.WorkingTreeStatus != "" {
		return BranchWithChanges
	}

	switch s.CommitRelationship {
	case RelAncestor:
		return BranchAncestor
	case RelAhead, RelDivergent:
		return BranchDivergent
	default:
		return BranchSameAsMain
	}
}

// Relate classifies HEAD against the base ref from the commit counts on each
// side. onBase is true when the base branch itself is checked out; there a
// missing upstream commit means behind, elsewhere it means the branch was
// merged and HEAD is a strict ancestor.
func Relate(ahead, behind int, onBase bool) CommitRelationship {
	switch {
	case ahead == 0 && behind == 0:
		return RelSame
	case ahead > 0 && behind > 0:
		return RelDivergent
	case ahead > 0:
		return RelAhead
	case onBase:
		return RelBehind
	default:
		return RelAncestor
	}
}
