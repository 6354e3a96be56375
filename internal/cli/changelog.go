package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/changelog"
	"github.com/ariel-frischer/autobump/internal/config"
	"github.com/ariel-frischer/autobump/internal/conventional"
	apperrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/git"
)

var (
	changelogMarkdownFlag     bool
	changelogUnrecognizedFlag bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Show the pending changelog since the last tag",
	Long: `Group the commits since the last tag into changelog sections: breaking
changes, features, bug fixes, and everything else.

By default the sections are rendered with color for the terminal. Pass
--markdown to get a fragment ready to paste into a CHANGELOG file or
release notes.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelog(cmd)
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().BoolVar(&changelogMarkdownFlag, "markdown", false, "Render as a markdown fragment")
	changelogCmd.Flags().BoolVar(&changelogUnrecognizedFlag, "include-unrecognized", false, "List non-conventional commits under Other")
}

func runChangelog(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return apperrors.WrapWithMessage(err, apperrors.Configuration, "loading configuration",
			"Check .autobump.yml and ~/.config/autobump/config.yml for mistakes")
	}

	repo, err := git.Open("")
	if err != nil {
		return apperrors.WrapWithMessage(err, apperrors.Repository, "opening repository",
			"Run autobump inside a git repository")
	}

	commits, err := scanHistory(repo)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Repository,
			"Make at least one commit before generating a changelog")
	}

	classified := conventional.ClassifyAll(commitMessages(commits))
	sections := changelog.Build(classified, changelog.Options{
		IncludeUnrecognized: changelogUnrecognizedFlag || cfg.Changelog.IncludeUnrecognized,
	})

	heading := "Unreleased"
	if tag, err := repo.LatestTag(cfg.TagPrefix); err == nil && tag != "" {
		heading = fmt.Sprintf("Unreleased (since %s)", tag)
	}

	out := cmd.OutOrStdout()
	if changelogMarkdownFlag {
		return changelog.RenderMarkdown(sections, heading, out)
	}
	return changelog.RenderTerminal(sections, heading, out)
}
