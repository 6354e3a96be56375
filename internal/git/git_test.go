package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureRepo builds a real repository in a temp dir so history and tag
// behavior is tested against go-git itself, not a mock.
type fixtureRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
}

func newFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test Author"
	cfg.User.Email = "test@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	return &fixtureRepo{t: t, dir: dir, repo: repo}
}

func (f *fixtureRepo) commit(message string) string {
	f.t.Helper()
	path := filepath.Join(f.dir, "file.txt")
	require.NoError(f.t, os.WriteFile(path, []byte(message+"\n"), 0o644))

	worktree, err := f.repo.Worktree()
	require.NoError(f.t, err)
	_, err = worktree.Add("file.txt")
	require.NoError(f.t, err)

	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test Author", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(f.t, err)
	return hash.String()
}

func (f *fixtureRepo) tag(name string) {
	f.t.Helper()
	head, err := f.repo.Head()
	require.NoError(f.t, err)
	_, err = f.repo.CreateTag(name, head.Hash(), &gogit.CreateTagOptions{
		Message: "release " + name,
		Tagger:  &object.Signature{Name: "Test Author", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(f.t, err)
}

func (f *fixtureRepo) open() *Repository {
	f.t.Helper()
	r, err := Open(f.dir)
	require.NoError(f.t, err)
	return r
}

func TestCommitsSinceLastTag(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: initial import")
	f.tag("v0.1.0")
	f.commit("fix: second")
	f.commit("feat: third")

	commits, err := f.open().CommitsSinceLastTag()
	require.NoError(t, err)
	require.Len(t, commits, 2)
	// Newest first.
	assert.Equal(t, "feat: third", commits[0].Message)
	assert.Equal(t, "fix: second", commits[1].Message)
	assert.Len(t, commits[0].ShortHash, 7)
	assert.Equal(t, "Test Author", commits[0].Author)
}

func TestCommitsSinceLastTag_NoTags(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")
	f.commit("fix: two")

	commits, err := f.open().CommitsSinceLastTag()
	require.NoError(t, err)
	assert.Len(t, commits, 2)
}

func TestCommitsSinceLastTag_EmptyRepo(t *testing.T) {
	f := newFixtureRepo(t)

	_, err := f.open().CommitsSinceLastTag()
	assert.ErrorIs(t, err, ErrNoCommits)
}

func TestCommitsSinceLastTag_NothingSinceTag(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")
	f.tag("v1.0.0")

	commits, err := f.open().CommitsSinceLastTag()
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestCommitMessages(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")
	f.tag("v0.1.0")
	f.commit("fix: two")

	messages, err := f.open().CommitMessages()
	require.NoError(t, err)
	assert.Equal(t, []string{"fix: two"}, messages)
}

func TestIsClean(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")

	r := f.open()
	clean, err := r.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)

	// Untracked files count as dirty.
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "scratch.txt"), []byte("wip"), 0o644))
	clean, err = r.IsClean()
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestLatestTag(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")
	f.tag("v0.1.0")
	f.commit("feat: two")
	f.tag("v0.10.0")
	f.commit("feat: three")
	f.tag("v0.2.0")
	f.tag("nightly")

	latest, err := f.open().LatestTag("v")
	require.NoError(t, err)
	// Semver ordering, not lexicographic: 0.10.0 > 0.2.0.
	assert.Equal(t, "v0.10.0", latest)
}

func TestLatestTag_NoSemverTags(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")
	f.tag("nightly")

	latest, err := f.open().LatestTag("v")
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestCreateTag(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")

	r := f.open()
	require.NoError(t, r.CreateTag("v1.0.0", "Release v1.0.0"))

	exists, err := r.TagExists("v1.0.0")
	require.NoError(t, err)
	assert.True(t, exists)

	err = r.CreateTag("v1.0.0", "again")
	assert.ErrorContains(t, err, "already exists")
}

func TestCommitPaths(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")

	path := filepath.Join(f.dir, "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "0.2.0"}`), 0o644))

	r := f.open()
	hash, err := r.CommitPaths([]string{path}, "chore: bump version 0.1.0 -> 0.2.0")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	clean, err := r.IsClean()
	require.NoError(t, err)
	assert.True(t, clean)

	commits, err := r.CommitsSinceLastTag()
	require.NoError(t, err)
	assert.Equal(t, "chore: bump version 0.1.0 -> 0.2.0", commits[0].Message)
}

func TestCurrentBranch(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("feat: one")

	branch, err := f.open().CurrentBranch()
	require.NoError(t, err)
	assert.NotEmpty(t, branch)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
