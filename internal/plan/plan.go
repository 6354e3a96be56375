// Package plan builds an immutable bump plan from commit history and the
// project manifest. All fallible analysis happens here, before any file is
// touched: a dry-run and a real run follow identical code paths up to the
// final Apply, so a failed build never leaves a manifest partially written.
package plan

import (
	"github.com/ariel-frischer/autobump/internal/conventional"
	"github.com/ariel-frischer/autobump/internal/manifest"
	"github.com/ariel-frischer/autobump/internal/semver"
)

// HistoryProvider supplies the raw commit messages to classify: commits
// reachable from HEAD but not from the most recent tag, or all commits when
// no tag exists. The provider owns the scoping; the builder trusts the
// sequence as given. Ordering does not affect the aggregated level.
type HistoryProvider interface {
	CommitMessages() ([]string, error)
}

// DirtyWorkingTreeError reports uncommitted changes blocking a bump.
type DirtyWorkingTreeError struct{}

func (*DirtyWorkingTreeError) Error() string {
	return "working tree has uncommitted changes (use --allow-dirty to proceed anyway)"
}

// Request carries everything the builder needs. Repository state (dirty
// flag) is passed in explicitly rather than probed here, keeping plan
// building deterministic and independently testable.
type Request struct {
	History    HistoryProvider
	Adapter    manifest.Adapter
	Descriptor manifest.Descriptor

	// Override, when set above LevelNone, is used directly and commit
	// history is never consulted. Explicit intent wins over inference.
	Override semver.Level

	// Dirty is the working-tree cleanliness flag; AllowDirty overrides it.
	Dirty      bool
	AllowDirty bool
}

// Plan is the precomputed description of the version change a run would
// perform. It is built fresh per invocation, immutable once returned, and
// never persisted.
type Plan struct {
	Current semver.Version
	Target  semver.Version
	Level   semver.Level
	// Commits are the classifications that contributed to the inferred
	// level, in the order the provider returned them. Empty when the level
	// was overridden.
	Commits []conventional.Commit
	// NoOp is true when nothing calls for a bump: the plan still carries
	// Current == Target and applying it changes nothing.
	NoOp bool
}

// Build assembles a bump plan. It performs no writes.
func Build(req Request) (*Plan, error) {
	if req.Dirty && !req.AllowDirty {
		return nil, &DirtyWorkingTreeError{}
	}

	current, err := req.Adapter.ReadVersion(req.Descriptor)
	if err != nil {
		return nil, err
	}

	p := &Plan{Current: current}

	if req.Override > semver.LevelNone {
		p.Level = req.Override
	} else {
		messages, err := req.History.CommitMessages()
		if err != nil {
			return nil, err
		}
		p.Commits = conventional.ClassifyAll(messages)
		p.Level = conventional.Aggregate(p.Commits)
		p.NoOp = p.Level == semver.LevelNone
	}

	p.Target = current.Bump(p.Level)
	return p, nil
}

// Apply writes the plan's target version through the adapter. Callers
// invoke it only after explicit confirmation; it is the single mutation in
// the whole pipeline.
func (p *Plan) Apply(a manifest.Adapter, d manifest.Descriptor) error {
	return a.WriteVersion(d, p.Target)
}
