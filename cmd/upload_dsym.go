package cmd

import (
	"github.com/spf13/cobra"

	"github.com/symup/symup/internal/domain"
)

// uploadDsymCmd represents the upload dsym command.
var uploadDsymCmd = newUploadDsymCmd()

func newUploadDsymCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dsym [path]",
		Short: "Upload iOS dSYM bundles",
		Long: `Find every .dSYM bundle under the path (or use the path itself when it
is a bundle), zip each one and upload the archives. A bundle that fails
does not stop the batch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildUploader(cmd).UploadDSYMs(cmd.Context(), domain.UploadDSYMArgs{
				Root: argOrDefault(args, "."),
			})
		},
	}
}

func init() {
	uploadCmd.AddCommand(uploadDsymCmd)
}
