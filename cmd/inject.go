package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/symup/symup/internal/domain"
	m "github.com/symup/symup/internal/model"
)

var injectDryRunFlag bool
var injectIncludeFlag []string

const injectLongDescription = `Scan a build output directory, pair each JavaScript file with its source
map (sibling .map file or sourceMappingURL directive), and rewrite the
script to embed a deterministic id of the map's contents.

The rewrite is idempotent and crash-safe: re-running replaces the
existing id instead of duplicating it, and every file is swapped in with
an atomic rename so an interrupted run never leaves a half-written
script behind.`

// injectCmd represents the inject command.
var injectCmd = newInjectCmd()

func newInjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inject [dir]",
		Short: "Inject source map ids into JavaScript build output",
		Long:  injectLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := chooseUI(cmd)

			opts := domain.InjectRunOptions{
				Root:    argOrDefault(args, "."),
				Include: injectIncludeFlag,
				Exclude: viper.GetStringSlice(excludeConfigKey),
				DryRun:  injectDryRunFlag,
				Preview: func(jsPath m.Path, id m.SourceMapID) {
					ui.DisplayInjectPreview(jsPath, id)
				},
			}

			summary, err := injectOrchestrator.RunInjection(cmd.Context(), opts)
			if err != nil {
				return err
			}

			ui.DisplayInjectSummary(summary)

			return injectFailuresToError(summary)
		},
	}

	cmd.Flags().BoolVar(&injectDryRunFlag, dryRunFlagName, false, "preview the changes without writing any file")
	cmd.Flags().StringArrayVar(&injectIncludeFlag, includeFlagName, nil, "only process files matching glob (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(injectCmd)
}

// injectFailuresToError turns recorded per-file failures into a non-zero
// exit after the whole tree was processed.
func injectFailuresToError(summary m.InjectSummary) error {
	if len(summary.Failures) == 0 {
		return nil
	}

	return &injectError{count: len(summary.Failures)}
}

type injectError struct {
	count int
}

func (e *injectError) Error() string {
	return fmt.Sprintf("injection finished with %d failure(s); see the log for details", e.count)
}
