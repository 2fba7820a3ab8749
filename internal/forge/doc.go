// Package forge provides an abstraction layer for git hosting services.
//
// GitHub is reachable through the gh CLI ([GitHub]) or the REST API
// ([GitHubAPI]); GitLab through the glab CLI ([GitLab]) or its REST API
// ([GitLabAPI]). Callers only see
// the [Forge] interface, which covers what publishing a branch needs:
// looking up the PR for a branch and creating a new one.
//
// # Platform Detection
//
// [New] picks the forge for a remote URL. Detection checks:
//
//  1. Custom host mappings from config (for self-hosted instances)
//  2. URL patterns (gitlab.*, github.* domains)
//  3. The configured default, then GitHub
//
// # Usage
//
//	f, err := forge.New(remoteURL, forge.Options{Mode: forge.ModeCLI})
//	pr, err := f.GetPRForBranch(ctx, remoteURL, branch)
//
// States are normalized to OPEN, MERGED and CLOSED on every forge.
// Never call gh or glab directly outside this package.
package forge
