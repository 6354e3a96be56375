package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/autobump/internal/manifest"
	"github.com/ariel-frischer/autobump/internal/semver"
)

// stubHistory returns canned messages and records whether it was consulted.
type stubHistory struct {
	messages []string
	err      error
	called   bool
}

func (s *stubHistory) CommitMessages() ([]string, error) {
	s.called = true
	return s.messages, s.err
}

func fixtureRequest(t *testing.T, messages []string) (Request, *stubHistory) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "demo", "version": "1.2.3"}`), 0o644))

	d := manifest.Descriptor{Path: path, Variant: manifest.VariantJSON, KeyPath: "version"}
	a, err := manifest.For(d.Variant)
	require.NoError(t, err)

	history := &stubHistory{messages: messages}
	return Request{History: history, Adapter: a, Descriptor: d}, history
}

func TestBuild_InfersLevelFromCommits(t *testing.T) {
	req, _ := fixtureRequest(t, []string{"fix: a", "feat: b", "chore: c"})

	p, err := Build(req)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", p.Current.String())
	assert.Equal(t, "1.3.0", p.Target.String())
	assert.Equal(t, semver.LevelMinor, p.Level)
	assert.Len(t, p.Commits, 3)
	assert.False(t, p.NoOp)
}

func TestBuild_BreakingCommitForcesMajor(t *testing.T) {
	req, _ := fixtureRequest(t, []string{"fix: a", "feat!: b"})

	p, err := Build(req)
	require.NoError(t, err)
	assert.Equal(t, semver.LevelMajor, p.Level)
	assert.Equal(t, "2.0.0", p.Target.String())
}

func TestBuild_EmptyHistoryIsNoOp(t *testing.T) {
	req, _ := fixtureRequest(t, nil)

	p, err := Build(req)
	require.NoError(t, err)
	assert.True(t, p.NoOp)
	assert.Equal(t, semver.LevelNone, p.Level)
	assert.Equal(t, p.Current, p.Target)
}

func TestBuild_OverrideSkipsHistory(t *testing.T) {
	req, history := fixtureRequest(t, []string{"feat!: would be major"})
	req.Override = semver.LevelPatch

	p, err := Build(req)
	require.NoError(t, err)
	assert.False(t, history.called, "override must skip commit retrieval")
	assert.Equal(t, semver.LevelPatch, p.Level)
	assert.Equal(t, "1.2.4", p.Target.String())
	assert.Empty(t, p.Commits)
	assert.False(t, p.NoOp)
}

func TestBuild_DirtyTreeBlocks(t *testing.T) {
	req, history := fixtureRequest(t, []string{"fix: a"})
	req.Dirty = true

	_, err := Build(req)
	var dirty *DirtyWorkingTreeError
	require.ErrorAs(t, err, &dirty)
	assert.False(t, history.called, "precondition check must run before any other work")
}

func TestBuild_AllowDirtyOverridesBlock(t *testing.T) {
	req, _ := fixtureRequest(t, []string{"fix: a"})
	req.Dirty = true
	req.AllowDirty = true

	p, err := Build(req)
	require.NoError(t, err)
	assert.Equal(t, "1.2.4", p.Target.String())
}

func TestBuild_PropagatesAdapterErrors(t *testing.T) {
	req, _ := fixtureRequest(t, nil)
	require.NoError(t, os.WriteFile(req.Descriptor.Path, []byte(`{"name": "demo"}`), 0o644))

	_, err := Build(req)
	var notFound *manifest.VersionFieldNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBuild_PropagatesHistoryErrors(t *testing.T) {
	req, history := fixtureRequest(t, nil)
	history.err = errors.New("no commits found in the repository")

	_, err := Build(req)
	assert.ErrorContains(t, err, "no commits found")
}

func TestApply_WritesTargetVersion(t *testing.T) {
	req, _ := fixtureRequest(t, []string{"feat: b"})

	p, err := Build(req)
	require.NoError(t, err)

	// Building alone must not write anything.
	raw, err := os.ReadFile(req.Descriptor.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"1.2.3"`)

	require.NoError(t, p.Apply(req.Adapter, req.Descriptor))

	v, err := req.Adapter.ReadVersion(req.Descriptor)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", v.String())
}
