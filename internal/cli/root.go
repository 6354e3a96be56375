// Package cli wires the autobump commands: bump, changelog, and tag. The
// commands are thin orchestration over the core packages; all bump logic
// lives in internal/plan and below.
package cli

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	apperrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/git"
	"github.com/ariel-frischer/autobump/internal/manifest"
	"github.com/ariel-frischer/autobump/internal/plan"
	"github.com/ariel-frischer/autobump/internal/semver"
	"github.com/ariel-frischer/autobump/internal/version"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "autobump",
	Short: "Bump your project version from conventional commit history",
	Long: `autobump infers the next semantic version of your project from the
commits made since the last tag, following the Conventional Commits
convention: fix commits call for a patch bump, feat commits for a minor
bump, and breaking changes (a "!" marker or a BREAKING CHANGE footer)
for a major bump.

The inferred bump is applied to the project manifest (package.json,
pyproject.toml, or Cargo.toml) without disturbing a single byte outside
the version field. Optionally the change is committed, tagged, and
pushed in one go.`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.BuildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			git.SetDebugLogger(log.Printf)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show verbose output")

	// Flag-parse failures (unknown flag, bad value) are argument errors,
	// not runtime failures; wrap them so exitCodeFor maps them to 3.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.NewArgumentError(err.Error(),
			fmt.Sprintf("Run 'autobump %s --help' to see the available flags", cmd.Name()))
	})
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		printCommandError(err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// printCommandError renders an error with category and remediation
// guidance, wrapping plain errors as runtime failures.
func printCommandError(err error) {
	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		apperrors.PrintError(cliErr)
		return
	}
	apperrors.PrintError(apperrors.Wrap(err, categoryFor(err)))
}

// categoryFor maps core error types onto CLI error categories.
func categoryFor(err error) apperrors.ErrorCategory {
	var (
		dirty       *plan.DirtyWorkingTreeError
		notFound    *manifest.VersionFieldNotFoundError
		invalid     *semver.InvalidVersionError
		unsupported *manifest.UnsupportedProjectError
	)
	switch {
	case errors.As(err, &dirty), errors.Is(err, git.ErrNoCommits):
		return apperrors.Repository
	case errors.As(err, &notFound), errors.As(err, &invalid), errors.As(err, &unsupported):
		return apperrors.Manifest
	default:
		return apperrors.Runtime
	}
}

// exitCodeFor maps an error to the documented exit codes.
func exitCodeFor(err error) int {
	var (
		dirty       *plan.DirtyWorkingTreeError
		notFound    *manifest.VersionFieldNotFoundError
		unsupported *manifest.UnsupportedProjectError
	)
	switch {
	case errors.As(err, &dirty):
		return ExitDirtyWorkingTree
	case errors.As(err, &notFound), errors.As(err, &unsupported):
		return ExitUnsupportedProject
	default:
		if cliErr := apperrors.AsCLIError(err); cliErr != nil && cliErr.Category == apperrors.Argument {
			return ExitInvalidArguments
		}
		return ExitRuntimeFailure
	}
}
