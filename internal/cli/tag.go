package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/output"
)

var (
	tagNameFlag     string
	tagPushFlag     bool
	tagYesFlag      bool
	tagProjectFlag  string
	tagManifestFlag string
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Tag the current manifest version",
	Long: `Create an annotated git tag for the version currently in the project
manifest, without bumping anything. Useful when the bump commit already
exists and only the tag is missing.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTag(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)

	tagCmd.Flags().StringVarP(&tagNameFlag, "tag-name", "n", "", "Tag name (default: <tag_prefix><current version>)")
	tagCmd.Flags().BoolVarP(&tagPushFlag, "push", "p", false, "Push the tag to origin")
	tagCmd.Flags().BoolVarP(&tagYesFlag, "yes", "y", false, "Skip confirmation prompts")
	tagCmd.Flags().StringVar(&tagProjectFlag, "project", "", "Project type (node|python|rust), skips detection")
	tagCmd.Flags().StringVar(&tagManifestFlag, "manifest", "", "Path to the project manifest")
}

func runTag(cmd *cobra.Command) error {
	rc, err := newRunContext(tagProjectFlag, tagManifestFlag)
	if err != nil {
		return err
	}

	current, err := rc.adapter.ReadVersion(rc.descriptor)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Manifest)
	}

	tagName := tagNameFlag
	if tagName == "" {
		tagName = rc.cfg.TagPrefix + current.String()
	}

	exists, err := rc.repo.TagExists(tagName)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Repository)
	}
	if exists {
		return apperrors.NewRepositoryError(fmt.Sprintf("tag %q already exists", tagName),
			"Pick a different name with --tag-name",
			"Or delete the old tag first: git tag -d "+tagName)
	}

	out := cmd.OutOrStdout()
	if !tagYesFlag && !rc.cfg.SkipConfirmations {
		if !confirm(cmd, fmt.Sprintf("Create tag %s for version %s?", tagName, current)) {
			output.Error(out, "Tagging aborted.")
			return nil
		}
	}

	if err := rc.repo.CreateTag(tagName, rc.cfg.ExpandTagMessage(tagName)); err != nil {
		return apperrors.Wrap(err, apperrors.Repository)
	}
	output.Success(out, "Created git tag: %s", tagName)

	if tagPushFlag {
		if err := rc.repo.PushTag(tagName); err != nil {
			return apperrors.Wrap(err, apperrors.Runtime,
				"Check that the 'origin' remote is reachable and you have push access")
		}
		output.Success(out, "Pushed tag %s to origin", tagName)
	}

	return nil
}
