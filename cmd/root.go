// Package cmd provides the root command and CLI setup for symup.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/symup/symup/internal/adapter"
	"github.com/symup/symup/internal/controller"
	"github.com/symup/symup/internal/domain"
	m "github.com/symup/symup/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var archiveAdapter adapter.ArchiveAdapter
var manifestAdapter adapter.ManifestAdapter
var injectOrchestrator domain.InjectOrchestrator

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag switches the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	archiveAdapter = adapter.NewZipArchiveAdapter()
	manifestAdapter = adapter.NewEtreeManifestAdapter()
	injectOrchestrator = domain.NewInjectOrchestrator(fsAdapter)
}

const rootLongDescription = `symup prepares and uploads symbolication artifacts (JavaScript source
maps, Android ProGuard/R8 mapping files, iOS dSYM bundles) to your
observability backend, and lists what was already uploaded.

Before uploading JavaScript source maps, run "symup inject" on the build
output so each script carries the id of its map.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symup",
		Short: "Symbolication artifact uploader",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug verbosity")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// chooseUI picks the interactive TUI on a terminal and the plain printer
// everywhere else (CI, pipes).
func chooseUI(cmd *cobra.Command) controller.UI {
	if controller.IsTTY(os.Stdout) {
		return controller.NewTUI(os.Stdout)
	}

	return controller.NewSimpleUI(cmd)
}

// buildUploader assembles the upload workflow from config-dependent
// collaborators; it runs at command time so viper is fully loaded.
func buildUploader(cmd *cobra.Command) domain.Uploader {
	backend := adapter.NewHTTPBackendClient(
		viper.GetString(apiURLKey),
		viper.GetString(apiTokenKey),
		apiTimeout(),
	)
	receipts := adapter.NewGobReceiptStore(m.Path(viper.GetString(receiptsPathKey)))

	return domain.NewUploader(fsAdapter, backend, archiveAdapter, manifestAdapter, receipts, chooseUI(cmd))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func argOrDefault(args []string, fallback string) m.Path {
	if len(args) > 0 {
		return m.Path(args[0])
	}

	return m.Path(fallback)
}
