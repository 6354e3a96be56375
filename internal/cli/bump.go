package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/conventional"
	apperrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/git"
	"github.com/ariel-frischer/autobump/internal/output"
	"github.com/ariel-frischer/autobump/internal/plan"
	"github.com/ariel-frischer/autobump/internal/semver"
)

var (
	bumpDryRunFlag     bool
	bumpLevelFlag      string
	bumpProjectFlag    string
	bumpManifestFlag   string
	bumpAllowDirtyFlag bool
	bumpCommitFlag     bool
	bumpCommitMsgFlag  string
	bumpTagFlag        bool
	bumpTagNameFlag    string
	bumpPushFlag       bool
	bumpYesFlag        bool
)

var bumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Bump the project version based on commit history",
	Long: `Infer the next version from the commits since the last tag and write
it to the project manifest.

The level is the maximum any single commit calls for: fix commits mean
patch, feat commits mean minor, and breaking changes mean major. Pass
--level to override the inference entirely.

Examples:
  autobump bump                  # Infer and apply after confirmation
  autobump bump --dry-run        # Show the plan without writing
  autobump bump --level minor    # Force a minor bump
  autobump bump -c -t -p         # Apply, commit, tag, and push`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(cmd)
	},
}

func init() {
	rootCmd.AddCommand(bumpCmd)

	bumpCmd.Flags().BoolVarP(&bumpDryRunFlag, "dry-run", "d", false, "Show the version change without writing")
	bumpCmd.Flags().StringVar(&bumpLevelFlag, "level", "", "Override the inferred level (patch|minor|major)")
	bumpCmd.Flags().StringVar(&bumpProjectFlag, "project", "", "Project type (node|python|rust), skips detection")
	bumpCmd.Flags().StringVar(&bumpManifestFlag, "manifest", "", "Path to the project manifest")
	bumpCmd.Flags().BoolVar(&bumpAllowDirtyFlag, "allow-dirty", false, "Allow uncommitted changes")
	bumpCmd.Flags().BoolVarP(&bumpCommitFlag, "commit", "c", false, "Commit the manifest change")
	bumpCmd.Flags().StringVarP(&bumpCommitMsgFlag, "commit-message", "m", "", "Commit message")
	bumpCmd.Flags().BoolVarP(&bumpTagFlag, "tag", "t", false, "Create a git tag for the new version")
	bumpCmd.Flags().StringVarP(&bumpTagNameFlag, "tag-name", "n", "", "Tag name (default: <tag_prefix><new version>)")
	bumpCmd.Flags().BoolVarP(&bumpPushFlag, "push", "p", false, "Push the commit and tag to origin")
	bumpCmd.Flags().BoolVarP(&bumpYesFlag, "yes", "y", false, "Skip confirmation prompts")
}

// staticHistory hands the plan builder commit messages that were already
// retrieved for display, so the repository is walked once.
type staticHistory struct {
	messages []string
}

func (s staticHistory) CommitMessages() ([]string, error) {
	return s.messages, nil
}

func runBump(cmd *cobra.Command) error {
	// All argument validation happens before anything is read or written,
	// so a bad invocation can never leave a half-applied bump behind.
	if bumpTagFlag && !bumpCommitFlag {
		return apperrors.NewArgumentError("--tag requires --commit",
			"Tag the bump commit, not the previous HEAD: add --commit")
	}
	if bumpPushFlag && !bumpTagFlag {
		return apperrors.NewArgumentError("--push requires --tag",
			"Push publishes the release tag: add --commit --tag")
	}
	override, err := parseLevelFlag(bumpLevelFlag)
	if err != nil {
		return err
	}

	rc, err := newRunContext(bumpProjectFlag, bumpManifestFlag)
	if err != nil {
		return err
	}

	allowDirty := bumpAllowDirtyFlag || rc.cfg.AllowDirty
	skipConfirm := bumpYesFlag || rc.cfg.SkipConfirmations

	clean, err := rc.repo.IsClean()
	if err != nil {
		return apperrors.Wrap(err, apperrors.Repository)
	}
	if !clean && !allowDirty {
		return decorateBuildError(&plan.DirtyWorkingTreeError{})
	}
	if !clean {
		output.Warn(cmd.ErrOrStderr(), "There are uncommitted changes in your working directory.")
	}

	var commits []git.Commit
	history := plan.HistoryProvider(rc.repo)
	if override == semver.LevelNone {
		// Retrieve once, for both display and classification.
		commits, err = scanHistory(rc.repo)
		if err != nil {
			return apperrors.Wrap(err, apperrors.Repository,
				"Make at least one commit before bumping")
		}
		history = staticHistory{messages: commitMessages(commits)}
	}

	p, err := plan.Build(plan.Request{
		History:    history,
		Adapter:    rc.adapter,
		Descriptor: rc.descriptor,
		Override:   override,
		Dirty:      !clean,
		AllowDirty: allowDirty,
	})
	if err != nil {
		return decorateBuildError(err)
	}

	out := cmd.OutOrStdout()
	if verboseFlag {
		output.Warn(out, "Current version: %s", p.Current)
	}

	if p.NoOp {
		output.Info(out, "No version bump needed: nothing in %d commits since the last tag calls for one.", len(p.Commits))
		return nil
	}

	if override == semver.LevelNone {
		output.Warn(out, "Found %d commits since last tag.", len(commits))
		printCommits(out, commits, p.Commits)
	} else {
		output.Info(out, "Level %s set explicitly, commit history not consulted.", p.Level)
	}

	before, after, err := previewManifestChange(rc, p.Target)
	if err != nil {
		return err
	}

	output.Info(out, "\nThese changes will be applied to %s\n", rc.descriptor.Path)
	output.RenderDiff(out, before, after)

	tagName := bumpTagNameFlag
	if tagName == "" {
		tagName = rc.cfg.TagPrefix + p.Target.String()
	}
	commitMessage := bumpCommitMsgFlag
	if commitMessage == "" {
		commitMessage = rc.cfg.ExpandCommitMessage(p.Current.String(), p.Target.String())
	}

	if bumpDryRunFlag {
		printDryRunSteps(out, rc, commitMessage, tagName)
		output.Warn(out, "Dry run. Would bump: %s -> %s", p.Current, p.Target)
		return nil
	}

	if !skipConfirm {
		if !confirm(cmd, fmt.Sprintf("\nApply these changes and bump the version to %s?", p.Target)) {
			output.Error(out, "Version bump aborted.")
			return nil
		}
	}

	if err := p.Apply(rc.adapter, rc.descriptor); err != nil {
		return apperrors.Wrap(err, apperrors.Manifest)
	}
	output.Success(out, "Bumped: %s -> %s", p.Current, p.Target)

	return finalizeBump(cmd, rc, commitMessage, tagName)
}

// finalizeBump performs the optional commit, tag, and push steps.
func finalizeBump(cmd *cobra.Command, rc *runContext, commitMessage, tagName string) error {
	out := cmd.OutOrStdout()

	if bumpCommitFlag {
		if _, err := rc.repo.CommitPaths([]string{rc.descriptor.Path}, commitMessage); err != nil {
			return apperrors.Wrap(err, apperrors.Repository)
		}
		output.Success(out, "Committed with message: %s", commitMessage)
	}

	if bumpTagFlag {
		if err := rc.repo.CreateTag(tagName, rc.cfg.ExpandTagMessage(tagName)); err != nil {
			return apperrors.Wrap(err, apperrors.Repository)
		}
		output.Success(out, "Created git tag: %s", tagName)
	}

	if bumpPushFlag {
		if err := rc.repo.PushTag(tagName); err != nil {
			return apperrors.Wrap(err, apperrors.Runtime,
				"Check that the 'origin' remote is reachable and you have push access")
		}
		output.Success(out, "Pushed tag %s to origin", tagName)

		branch, err := rc.repo.CurrentBranch()
		if err != nil {
			return apperrors.Wrap(err, apperrors.Repository)
		}
		if branch != "" {
			if err := rc.repo.PushBranch(branch); err != nil {
				return apperrors.Wrap(err, apperrors.Runtime,
					"Check that the 'origin' remote is reachable and you have push access")
			}
			output.Success(out, "Pushed commit to origin")
		}
	}

	return nil
}

// scanHistory retrieves the commits since the last tag, with a spinner on
// interactive terminals.
func scanHistory(repo *git.Repository) ([]git.Commit, error) {
	var spin *spinner.Spinner
	if output.IsTerminal() {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " scanning commit history..."
		spin.Start()
		defer spin.Stop()
	}
	return repo.CommitsSinceLastTag()
}

// printCommits lists the commits contributing to the plan, marking the
// level each one implies.
func printCommits(out io.Writer, commits []git.Commit, classified []conventional.Commit) {
	hashColor := color.New(color.FgYellow).SprintFunc()
	levelColor := color.New(color.FgMagenta).SprintFunc()

	for i, c := range commits {
		header := firstLine(c.Message)
		note := ""
		if i < len(classified) {
			if lvl := classified[i].ImpliedLevel(); lvl != semver.LevelNone {
				note = " " + levelColor("["+lvl.String()+"]")
			}
		}
		fmt.Fprintf(out, "* %s %s%s\n", hashColor(c.ShortHash), header, note)
	}
}

// printDryRunSteps lists the operations a real run would perform.
func printDryRunSteps(out io.Writer, rc *runContext, commitMessage, tagName string) {
	output.Warn(out, "\nDry run: the following operations would be performed:")
	fmt.Fprintf(out, "- Write changes to %s\n", rc.descriptor.Path)
	if bumpCommitFlag {
		fmt.Fprintf(out, "- Commit with message: %s\n", commitMessage)
	}
	if bumpTagFlag {
		fmt.Fprintf(out, "- Create tag: %s\n", tagName)
	}
	if bumpPushFlag {
		fmt.Fprintf(out, "- Push tag %s to origin\n", tagName)
		fmt.Fprintln(out, "- Push commit to origin")
	}
}

// parseLevelFlag converts --level into an override, empty meaning "infer".
func parseLevelFlag(value string) (semver.Level, error) {
	if value == "" {
		return semver.LevelNone, nil
	}
	level, err := semver.ParseLevel(value)
	if err != nil {
		return semver.LevelNone, apperrors.NewArgumentError(err.Error(),
			"Use --level patch, --level minor, or --level major")
	}
	return level, nil
}

// decorateBuildError attaches remediation guidance to plan build failures.
func decorateBuildError(err error) error {
	var dirty *plan.DirtyWorkingTreeError
	if errors.As(err, &dirty) {
		return apperrors.Wrap(err, apperrors.Repository,
			"Commit or stash your changes",
			"Or pass --allow-dirty to proceed anyway")
	}
	return err
}

func commitMessages(commits []git.Commit) []string {
	messages := make([]string, len(commits))
	for i, c := range commits {
		messages[i] = c.Message
	}
	return messages
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
