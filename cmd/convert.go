package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmmoran/ai1convert/pkg/action/convert"
	"github.com/cmmoran/ai1convert/pkg/converter"
)

func init() {
	var convertCmd = NewConvertCommand()
	rootCmd.AddCommand(convertCmd)
}

func NewConvertCommand() *cobra.Command {
	var (
		options = converter.NewOptions()
		quiet   bool
	)

	// convertCmd represents the ai1convert convert command
	var convertCmd = &cobra.Command{
		Use:   "convert <project.zip>",
		Short: "convert a legacy project",
		Long:  "Convert a legacy App Inventor project archive (.zip) into a current project archive (.aia)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := applyConfig(c, options, args); err != nil {
				return err
			}
			conv, err := converter.NewWithOpts(options)
			if err != nil {
				return err
			}
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sum, err := convert.Run(ctx, conv)
			if sum != nil {
				printDiagnostics(os.Stdout, sum.Diagnostics)
				if !quiet {
					printSummary(os.Stdout, sum)
				}
			}
			return err
		},
	}
	bindOptions(convertCmd.Flags(), options)
	convertCmd.Flags().StringVarP(&options.InFile, "input-file", "i", "", "legacy project archive (.zip)")
	convertCmd.Flags().StringVarP(&options.ReportFile, "report", "r", defaultReportFile, "conversion report manifest, empty to disable")
	convertCmd.Flags().StringVar(&options.InfoScreen, "info-screen", converter.DefaultInfoScreen, "name of the screen marking the project as converted")
	convertCmd.Flags().StringVar(&options.ConverterVersion, "converter-version", converter.DefaultVersion, "converter version recorded in the marker screen")
	convertCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print diagnostics")

	return convertCmd
}
