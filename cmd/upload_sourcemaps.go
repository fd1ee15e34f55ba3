package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/symup/symup/internal/domain"
)

var sourcemapsAppNameFlag string
var sourcemapsAppVersionFlag string
var sourcemapsParallelFlag int

// uploadSourcemapsCmd represents the upload sourcemaps command.
var uploadSourcemapsCmd = newUploadSourcemapsCmd()

func newUploadSourcemapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sourcemaps [dir]",
		Short: "Upload JavaScript source maps",
		Long: `Find every source map under the directory and upload it keyed by the
deterministic id of its contents. Scripts that were never injected
produce a warning, not a failure: run "symup inject" first so stack
traces can be matched back to the maps.

A file that fails to upload does not stop the batch; failures are
reported together at the end and the command exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildUploader(cmd).UploadSourceMaps(cmd.Context(), domain.UploadSourceMapsArgs{
				Root:       argOrDefault(args, "."),
				AppName:    sourcemapsAppNameFlag,
				AppVersion: sourcemapsAppVersionFlag,
				Threads:    viper.GetInt(uploadParallelKey),
			})
		},
	}

	cmd.Flags().StringVar(&sourcemapsAppNameFlag, "app-name", "", "application name to attach to the uploads")
	cmd.Flags().StringVar(&sourcemapsAppVersionFlag, "app-version", "", "application version to attach to the uploads")
	cmd.Flags().IntVarP(&sourcemapsParallelFlag, "parallel", "p", viper.GetInt(uploadParallelKey), "number of parallel uploads")
	bindFlagToConfig(cmd.Flags().Lookup("parallel"), uploadParallelKey)

	return cmd
}

func init() {
	uploadCmd.AddCommand(uploadSourcemapsCmd)
}
