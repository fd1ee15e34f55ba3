package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/symup/symup/internal/domain"
	m "github.com/symup/symup/internal/model"
)

var listLocalFlag bool
var listFormatFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [kind]",
		Short: "List previously uploaded artifacts",
		Long: `List artifacts already uploaded to the backend, optionally filtered by
kind (sourcemap, android-mapping, dsym). With --local the list comes
from the receipt log written by previous uploads on this machine, so no
network access is needed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := m.ArtifactKind("")
			if len(args) > 0 {
				kind = m.ArtifactKind(args[0])
			}

			artifacts, err := buildUploader(cmd).ListArtifacts(cmd.Context(), domain.ListArtifactsArgs{
				Kind:      kind,
				LocalOnly: listLocalFlag,
			})
			if err != nil {
				return err
			}

			if listFormatFlag == "yaml" {
				out, err := yaml.Marshal(artifacts)
				if err != nil {
					return fmt.Errorf("encode artifacts: %w", err)
				}

				cmd.Print(string(out))

				return nil
			}

			return chooseUI(cmd).DisplayArtifacts(artifacts)
		},
	}

	cmd.Flags().BoolVar(&listLocalFlag, "local", false, "list from the local receipt log instead of the backend")
	cmd.Flags().StringVar(&listFormatFlag, "format", "table", "output format: table or yaml")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
