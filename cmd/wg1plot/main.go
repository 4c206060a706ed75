// Command wg1plot renders particle-physics plots described by a JSON
// configuration file.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/banshee-data/wg1plot/internal/monitoring"
	"github.com/banshee-data/wg1plot/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

type options struct {
	output   string
	formats  []string
	verbose  bool
	only     []string
	variable string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "wg1plot",
		Short:         "Render standardized particle-physics plots",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			monitoring.Configure(cmd.ErrOrStderr(), opts.verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	render := &cobra.Command{
		Use:   "render <config.json>",
		Short: "Render every plot of a configuration file",
		Long: `render loads the sources of the configuration, builds each plot and
exports it to the output directory in every requested format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}
	render.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (overrides output_dir)")
	render.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "Export format, repeatable (overrides formats)")
	render.Flags().StringSliceVar(&opts.only, "plot", nil, "Render only the named plots")

	bin := &cobra.Command{
		Use:   "binning <config.json>",
		Short: "Print the estimated binning of a column across all sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBinning(cmd, args[0], opts)
		},
	}
	bin.Flags().StringVar(&opts.variable, "variable", "", "Column to estimate the binning for")
	_ = bin.MarkFlagRequired("variable")

	root.AddCommand(render, bin)
	return root
}
