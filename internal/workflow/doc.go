// Package workflow classifies the state of a repository and turns it into
// a PR branch.
//
// A single pass runs left to right and keeps no state between invocations:
//
//	Analyze → DetectScenario → GetScenarioContext → (choice) → Plan → Execute
//
// [Analyze] probes the repository through an [Adapter] into an immutable
// [GitState]. [DetectScenario] maps that state to one of twelve
// [Scenario] values. [GetScenarioContext] lists the applicable actions,
// least intrusive first, ending with cancel. [Plan] expands a chosen
// [StateAction] into the exact ordered git mutations and [Execute] runs them
// through a [Mutator], stopping at the first failure.
//
// # Errors
//
//   - [*RepoStateError]: not a repository or base unresolvable; nothing is classified
//   - [*StepError]: a git mutation failed; wraps the [*git.CommandError]
//   - [*InvalidActionError]: an automated caller picked a key the scenario does not offer
//   - [ErrUserCancelled]: the cancel choice was selected
//
// [GitAdapter] implements both interfaces on top of [git.Repo].
package workflow
