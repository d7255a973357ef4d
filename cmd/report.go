package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/ai1convert/pkg/action/report"
)

func init() {
	rootCmd.AddCommand(NewReportCommand())
}

func NewReportCommand() *cobra.Command {
	var reportFile string

	resolve := func(c *cobra.Command) string {
		if !c.Flags().Changed("report") && viper.IsSet("convert.report_file") {
			return viper.GetString("convert.report_file")
		}
		return reportFile
	}

	// reportCmd represents the ai1convert report command
	var reportCmd = &cobra.Command{
		Use:   "report",
		Short: "inspect conversion history",
		Long:  "List recorded conversion runs and compare the latest two",
	}
	reportCmd.PersistentFlags().StringVarP(&reportFile, "report", "r", defaultReportFile, "conversion report manifest")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			m, err := report.List(resolve(c))
			if err != nil {
				return err
			}
			printRuns(os.Stdout, m)
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff [project.zip]",
		Short: "compare the latest two runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			source := ""
			if len(args) > 0 {
				source = args[0]
			}
			diff, err := report.DiffCurrentWithPrevious(resolve(c), source)
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(os.Stdout, "No differences")
				return nil
			}
			fmt.Fprint(os.Stdout, diff)
			return nil
		},
	}

	reportCmd.AddCommand(listCmd, diffCmd)
	return reportCmd
}
