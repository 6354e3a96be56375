package cli

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/config"
	apperrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/output"
)

var initForceFlag bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .autobump.yml in the current directory",
	Long: `Create a commented .autobump.yml in the current directory with every
supported configuration key. All keys start commented out, so the file
changes nothing until edited.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command) error {
	path := config.ProjectConfigPath()
	if err := config.WriteStarterConfig(path, initForceFlag); err != nil {
		return apperrors.Wrap(err, apperrors.Configuration,
			"Pass --force to overwrite the existing file")
	}
	output.Success(cmd.OutOrStdout(), "Wrote %s", path)
	return nil
}
