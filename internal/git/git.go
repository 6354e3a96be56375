// Package git provides the repository collaborators for autobump: commit
// history since the last tag, working-tree cleanliness, and the apply-side
// commit/tag/push operations. It uses the go-git library throughout; no
// git CLI is required.
package git

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	xsemver "golang.org/x/mod/semver"
)

// debugLogger is a function that logs debug messages when verbose mode is
// enabled. By default it is a no-op; set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations. Pass nil
// to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNoCommits reports a repository with no commits at all.
var ErrNoCommits = fmt.Errorf("no commits found in the repository")

// errStopIter terminates a history walk early.
var errStopIter = fmt.Errorf("stop iteration")

// Commit is one history entry as shown to the user.
type Commit struct {
	Hash      string
	ShortHash string
	Author    string
	Date      time.Time
	Message   string
}

// Repository wraps a go-git repository rooted at or above a directory.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository containing path (or the current working
// directory when path is empty), traversing up to find the .git directory.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return &Repository{repo: repo}, nil
}

// IsClean reports whether the working tree has no uncommitted changes.
// Untracked files count as dirty, matching `git status --porcelain`.
func (r *Repository) IsClean() (bool, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("getting worktree status: %w", err)
	}
	logDebug("[git] IsClean: %v", status.IsClean())
	return status.IsClean(), nil
}

// CurrentBranch returns the checked-out branch name, or empty string in
// detached HEAD state.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// Root returns the absolute path of the worktree root.
func (r *Repository) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// CommitsSinceLastTag returns the commits reachable from HEAD but not from
// the most recent tag, newest first. When no tag exists, all commits are
// returned. An empty repository yields ErrNoCommits.
func (r *Repository) CommitsSinceLastTag() ([]Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return nil, ErrNoCommits
		}
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	tagged, err := r.taggedCommits()
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if _, ok := tagged[c.Hash]; ok {
			return errStopIter
		}
		commits = append(commits, Commit{
			Hash:      c.Hash.String(),
			ShortHash: c.Hash.String()[:7],
			Author:    c.Author.Name,
			Date:      c.Author.When,
			Message:   strings.TrimSpace(c.Message),
		})
		return nil
	})
	if err != nil && err != errStopIter {
		return nil, fmt.Errorf("walking history: %w", err)
	}

	logDebug("[git] CommitsSinceLastTag: %d commits", len(commits))
	return commits, nil
}

// CommitMessages adapts CommitsSinceLastTag to the plan builder's
// HistoryProvider interface.
func (r *Repository) CommitMessages() ([]string, error) {
	commits, err := r.CommitsSinceLastTag()
	if err != nil {
		return nil, err
	}
	messages := make([]string, len(commits))
	for i, c := range commits {
		messages[i] = c.Message
	}
	return messages, nil
}

// taggedCommits maps commit hashes to the tag names pointing at them,
// resolving annotated tags to their target commits.
func (r *Repository) taggedCommits() (map[plumbing.Hash]string, error) {
	tags, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tagged := make(map[plumbing.Hash]string)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tagObj, err := r.repo.TagObject(hash); err == nil {
			hash = tagObj.Target
		}
		tagged[hash] = ref.Name().Short()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tagged, nil
}

// LatestTag returns the highest semver-ordered tag name, honoring the given
// prefix (usually "v"). Returns empty string when no tag parses.
func (r *Repository) LatestTag(prefix string) (string, error) {
	tags, err := r.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}

	latest := ""
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		canonical := "v" + strings.TrimPrefix(name, prefix)
		if !xsemver.IsValid(canonical) {
			return nil
		}
		if latest == "" || xsemver.Compare(canonical, "v"+strings.TrimPrefix(latest, prefix)) > 0 {
			latest = name
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("iterating tags: %w", err)
	}
	return latest, nil
}

// TagExists reports whether a tag reference with the given name exists.
func (r *Repository) TagExists(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewTagReferenceName(name), false)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, fmt.Errorf("checking tag %q: %w", name, err)
}

// CommitPaths stages the given paths and creates a commit with message.
// Author identity comes from the repository or global git config.
func (r *Repository) CommitPaths(paths []string, message string) (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	root := worktree.Filesystem.Root()

	for _, p := range paths {
		rel := relToRoot(root, p)
		if _, err := worktree.Add(rel); err != nil {
			return "", fmt.Errorf("staging %s: %w", rel, err)
		}
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	logDebug("[git] CommitPaths: committed %s", hash)
	return hash.String(), nil
}

// CreateTag creates an annotated tag at HEAD. Duplicate tag names are
// rejected.
func (r *Repository) CreateTag(name, message string) error {
	exists, err := r.TagExists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("tag %q already exists", name)
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	_, err = r.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("creating tag %q: %w", name, err)
	}
	logDebug("[git] CreateTag: created %s", name)
	return nil
}

// PushTag pushes a single tag to origin.
func (r *Repository) PushTag(name string) error {
	return r.push(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))
}

// PushBranch pushes a branch to origin.
func (r *Repository) PushBranch(name string) error {
	return r.push(fmt.Sprintf("refs/heads/%s:refs/heads/%s", name, name))
}

func (r *Repository) push(refspec string) error {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("no remote named 'origin' found")
	}

	var auth transport.AuthMethod
	if urls := remote.Config().URLs; len(urls) > 0 {
		auth = getAuthForURL(urls[0])
	}

	logDebug("[git] push: %s", refspec)
	err = r.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{config.RefSpec(refspec)},
		Auth:       auth,
	})
	if err == git.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pushing %s: %w", refspec, err)
	}
	return nil
}

// getAuthForURL returns the authentication method for a remote URL:
// SSH agent for SSH URLs, environment credentials for HTTPS.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			username, password = "git", token
		}
	}
	if username != "" {
		return &http.BasicAuth{Username: username, Password: password}
	}
	return nil
}

// isSSHURL detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// relToRoot converts an absolute path to a path relative to the worktree
// root, as go-git's Add requires.
func relToRoot(root, path string) string {
	rel := strings.TrimPrefix(path, root)
	rel = strings.TrimPrefix(rel, string(os.PathSeparator))
	if rel == "" {
		return path
	}
	return rel
}
