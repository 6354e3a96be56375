package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/autobump/internal/conventional"
)

func classify(messages ...string) []conventional.Commit {
	return conventional.ClassifyAll(messages)
}

func TestBuild_GroupsByKind(t *testing.T) {
	commits := classify(
		"feat(api): add tag subcommand",
		"fix: handle empty history",
		"feat!: drop json config",
		"chore: tidy deps",
		"random noise commit",
	)

	sections := Build(commits, Options{})
	require.Len(t, sections, 4)

	assert.Equal(t, "Breaking Changes", sections[0].Title)
	assert.Equal(t, []string{"drop json config"}, sections[0].Entries)

	assert.Equal(t, "Features", sections[1].Title)
	assert.Equal(t, []string{"**api**: add tag subcommand"}, sections[1].Entries)

	assert.Equal(t, "Bug Fixes", sections[2].Title)
	assert.Equal(t, []string{"handle empty history"}, sections[2].Entries)

	// "chore" is conventional but weightless; noise is excluded by default.
	assert.Equal(t, "Other", sections[3].Title)
	assert.Equal(t, []string{"tidy deps"}, sections[3].Entries)
}

func TestBuild_UnrecognizedPolicy(t *testing.T) {
	commits := classify("random noise commit")

	assert.Empty(t, Build(commits, Options{}))

	sections := Build(commits, Options{IncludeUnrecognized: true})
	require.Len(t, sections, 1)
	assert.Equal(t, "Other", sections[0].Title)
	assert.Equal(t, []string{"random noise commit"}, sections[0].Entries)
}

func TestBuild_BreakingFooterOnNonConventionalCommit(t *testing.T) {
	commits := classify("rewrite storage layer\n\nBREAKING CHANGE: format changed")

	sections := Build(commits, Options{})
	require.Len(t, sections, 1)
	assert.Equal(t, "Breaking Changes", sections[0].Title)
	assert.Equal(t, []string{"rewrite storage layer"}, sections[0].Entries)
}

func TestRenderMarkdown(t *testing.T) {
	commits := classify("feat: one", "fix: two")
	sections := Build(commits, Options{})

	var b strings.Builder
	require.NoError(t, RenderMarkdown(sections, "1.3.0 (unreleased)", &b))

	got := b.String()
	assert.Contains(t, got, "## 1.3.0 (unreleased)")
	assert.Contains(t, got, "### Features\n\n- one\n")
	assert.Contains(t, got, "### Bug Fixes\n\n- two\n")

	var again strings.Builder
	require.NoError(t, RenderMarkdown(sections, "1.3.0 (unreleased)", &again))
	assert.Equal(t, got, again.String())
}

func TestRenderMarkdown_Empty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, RenderMarkdown(nil, "unreleased", &b))
	assert.Contains(t, b.String(), "No notable changes.")
}

func TestRenderTerminal(t *testing.T) {
	commits := classify("feat: one")
	var b strings.Builder
	require.NoError(t, RenderTerminal(Build(commits, Options{}), "unreleased", &b))
	assert.Contains(t, b.String(), "• one")
}
