package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"

	"github.com/cmmoran/ai1convert/pkg/converter"
)

// defaultReportFile is where conversion runs are recorded unless configured
// otherwise.
const defaultReportFile = "ai1convert-report.yaml"

// bindOptions registers the flags shared by the conversion commands.
func bindOptions(flags *pflag.FlagSet, options *converter.Options) {
	flags.StringVarP(&options.OutDir, "output-directory", "o", ".", "directory to write converted files")
	flags.StringVarP(&options.OutFile, "output-file", "f", "", "output file name, derived from the input when empty")
	flags.StringSliceVar(&options.CatalogFiles, "catalog", []string{}, "extra component catalog file(s) merged over the built-in catalog")
}

// applyConfig fills options from the "convert" config section for every
// flag the user did not set, then normalizes them.
func applyConfig(c *cobra.Command, options *converter.Options, args []string) error {
	if len(args) > 0 {
		options.InFile = args[0]
	}
	if viper.IsSet("convert") {
		cfg := converter.NewOptions()
		if err := viper.UnmarshalKey("convert", cfg); err != nil {
			return errors.Errorf("read convert config: %w", err)
		}
		fill := func(flag string, dst *string, v string) {
			if v != "" && !c.Flags().Changed(flag) {
				*dst = v
			}
		}
		fill("output-directory", &options.OutDir, cfg.OutDir)
		fill("output-file", &options.OutFile, cfg.OutFile)
		fill("report", &options.ReportFile, cfg.ReportFile)
		fill("info-screen", &options.InfoScreen, cfg.InfoScreen)
		fill("converter-version", &options.ConverterVersion, cfg.ConverterVersion)
		fill("screen", &options.Screen, cfg.Screen)
		if len(cfg.CatalogFiles) > 0 && !c.Flags().Changed("catalog") {
			options.CatalogFiles = cfg.CatalogFiles
		}
	}
	return options.Normalize()
}
