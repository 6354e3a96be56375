package cli

// Exit codes for the autobump CLI. These codes support programmatic
// composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution, including a
	// no-op plan (nothing to bump is a valid outcome, not an error).
	ExitSuccess = 0

	// ExitRuntimeFailure indicates the command failed during execution.
	ExitRuntimeFailure = 1

	// ExitDirtyWorkingTree indicates uncommitted changes blocked the bump.
	ExitDirtyWorkingTree = 2

	// ExitInvalidArguments indicates invalid command arguments.
	ExitInvalidArguments = 3

	// ExitUnsupportedProject indicates no supported manifest was found or
	// the manifest lacks a usable version field.
	ExitUnsupportedProject = 4
)
