package cmd

import (
	"github.com/spf13/cobra"

	"github.com/symup/symup/internal/domain"
	m "github.com/symup/symup/internal/model"
)

var androidManifestFlag string
var androidAppIDFlag string
var androidVersionCodeFlag string
var androidVersionNameFlag string

// uploadAndroidCmd represents the upload android command.
var uploadAndroidCmd = newUploadAndroidCmd()

func newUploadAndroidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "android <mapping.txt>",
		Short: "Upload an Android ProGuard/R8 mapping file",
		Long: `Upload a ProGuard/R8 mapping file. The application id and version can be
passed as flags, or extracted from an AndroidManifest.xml with
--manifest; flags win when both are given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildUploader(cmd).UploadAndroidMapping(cmd.Context(), domain.UploadAndroidArgs{
				MappingPath:   m.Path(args[0]),
				ManifestPath:  m.Path(androidManifestFlag),
				ApplicationID: androidAppIDFlag,
				VersionCode:   androidVersionCodeFlag,
				VersionName:   androidVersionNameFlag,
			})
		},
	}

	cmd.Flags().StringVar(&androidManifestFlag, "manifest", "", "AndroidManifest.xml to read the application identity from")
	cmd.Flags().StringVar(&androidAppIDFlag, "app-id", "", "application id (e.g. com.example.app)")
	cmd.Flags().StringVar(&androidVersionCodeFlag, "version-code", "", "android versionCode of the build")
	cmd.Flags().StringVar(&androidVersionNameFlag, "version-name", "", "android versionName of the build")

	return cmd
}

func init() {
	uploadCmd.AddCommand(uploadAndroidCmd)
}
