package cmd

import (
	"github.com/spf13/cobra"
)

// uploadCmd is the parent for the per-platform upload commands.
var uploadCmd = newUploadCmd()

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Upload symbolication artifacts to the backend",
		Long: `Upload symbolication artifacts to the observability backend.

Each platform has its own subcommand: "sourcemaps" for JavaScript,
"android" for ProGuard/R8 mapping files, "dsym" for iOS debug symbols.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
