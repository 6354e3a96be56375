package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/plan"
)

const bumpFixtureManifest = `{
  "name": "demo",
  "version": "0.1.0"
}
`

// resetBumpFlags restores the package-level bump flags after a test that
// sets them directly.
func resetBumpFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		bumpDryRunFlag = false
		bumpLevelFlag = ""
		bumpProjectFlag = ""
		bumpManifestFlag = ""
		bumpAllowDirtyFlag = false
		bumpCommitFlag = false
		bumpCommitMsgFlag = ""
		bumpTagFlag = false
		bumpTagNameFlag = ""
		bumpPushFlag = false
		bumpYesFlag = false
	})
}

// isolateConfig keeps the developer's real user config and env out of CLI
// tests.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

// bumpFixture creates a node project inside a real git repository and
// chdirs into it. When committed is true the manifest is committed with a
// feat message, leaving a clean tree with one bump-worthy commit.
func bumpFixture(t *testing.T, committed bool) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	manifest := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(manifest, []byte(bumpFixtureManifest), 0o644))

	if committed {
		worktree, err := repo.Worktree()
		require.NoError(t, err)
		_, err = worktree.Add("package.json")
		require.NoError(t, err)
		_, err = worktree.Commit("feat: initial release scaffolding", &gogit.CommitOptions{
			Author: &object.Signature{Name: "Test Author", Email: "test@example.com", When: time.Now()},
		})
		require.NoError(t, err)
	}

	t.Chdir(dir)
	return manifest
}

func testCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd
}

// An invalid flag combination must be rejected before the manifest is
// touched; the version on disk stays exactly as it was.
func TestRunBump_TagWithoutCommitRejectedBeforeWrite(t *testing.T) {
	isolateConfig(t)
	resetBumpFlags(t)
	manifest := bumpFixture(t, true)

	bumpTagFlag = true
	bumpYesFlag = true

	err := runBump(testCommand())
	require.Error(t, err)

	cliErr := apperrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, apperrors.Argument, cliErr.Category)
	assert.Equal(t, ExitInvalidArguments, exitCodeFor(err))

	data, readErr := os.ReadFile(manifest)
	require.NoError(t, readErr)
	assert.Equal(t, bumpFixtureManifest, string(data))
}

// --push without --tag is rejected up front, before the repository or
// manifest is even opened.
func TestRunBump_PushWithoutTagRejected(t *testing.T) {
	resetBumpFlags(t)
	bumpPushFlag = true
	bumpYesFlag = true

	err := runBump(testCommand())
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, exitCodeFor(err))
	assert.ErrorContains(t, err, "--push requires --tag")
}

// The same combination checks gate dry runs: a dry run with an invalid
// combination errors instead of printing a plan it could never perform.
func TestRunBump_DryRunRejectsInvalidCombination(t *testing.T) {
	isolateConfig(t)
	resetBumpFlags(t)
	bumpFixture(t, true)

	bumpDryRunFlag = true
	bumpTagFlag = true

	err := runBump(testCommand())
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, exitCodeFor(err))
}

// The dirty-tree precondition fires before the history walk. The fixture
// repository has no commits at all, so if history were scanned first the
// failure would be "no commits found" instead of the dirty-tree error.
func TestRunBump_DirtyTreeCheckedBeforeHistoryScan(t *testing.T) {
	isolateConfig(t)
	resetBumpFlags(t)
	bumpFixture(t, false)

	err := runBump(testCommand())
	require.Error(t, err)

	var dirty *plan.DirtyWorkingTreeError
	assert.True(t, errors.As(err, &dirty), "expected dirty-tree error, got: %v", err)
	assert.Equal(t, ExitDirtyWorkingTree, exitCodeFor(err))
}

// Unknown flags are argument errors, not runtime failures.
func TestExecute_UnknownFlagMapsToInvalidArguments(t *testing.T) {
	flagErr := rootCmd.FlagErrorFunc()(bumpCmd, errors.New("unknown flag: --bogus"))
	require.Error(t, flagErr)

	cliErr := apperrors.AsCLIError(flagErr)
	require.NotNil(t, cliErr)
	assert.Equal(t, apperrors.Argument, cliErr.Category)
	assert.Equal(t, ExitInvalidArguments, exitCodeFor(flagErr))
}
