package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/cmmoran/ai1convert/pkg/converter"
)

func init() {
	rootCmd.AddCommand(NewComponentsCommand())
}

func NewComponentsCommand() *cobra.Command {
	var (
		options   = converter.NewOptions()
		blocksFor string
		stdout    bool
	)

	// componentsCmd represents the ai1convert components command
	var componentsCmd = &cobra.Command{
		Use:   "components <screen.scm>",
		Short: "upgrade one component file",
		Long: "Upgrade the component versions of a single legacy screen sidecar (.scm). " +
			"Pass the screen's .blk with --blocks to check features the upgrade would break.",
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := applyConfig(c, options, args); err != nil {
				return err
			}
			conv, err := converter.NewWithOpts(options)
			if err != nil {
				return err
			}

			var features *converter.FeatureSet
			if blocksFor != "" {
				text, err := os.ReadFile(blocksFor)
				if err != nil {
					return errors.Errorf("read %s: %w", blocksFor, err)
				}
				res, err := conv.Blocks(options.Screen, filepath.Base(blocksFor), string(text))
				printDiagnostics(os.Stderr, res.Diagnostics)
				if err != nil {
					return err
				}
				features = res.Features
			}

			text, err := os.ReadFile(options.InFile)
			if err != nil {
				return errors.Errorf("read %s: %w", options.InFile, err)
			}
			res, err := conv.Components(string(text), features)
			if err != nil {
				printDiagnostics(os.Stderr, converter.Diagnose(options.Screen, filepath.Base(options.InFile), err))
				return err
			}
			if err := writeOutput(options, res.Text, stdout); err != nil {
				return err
			}
			for _, u := range res.Upgrades {
				fmt.Fprintf(os.Stderr, "Upgraded %s (%s) from version %d to %d\n", u.Name, u.ComponentType, u.From, u.To)
			}
			if res.ScrollableAdded {
				fmt.Fprintln(os.Stderr, "Set Scrollable on the screen to True")
			}
			return nil
		},
	}
	bindOptions(componentsCmd.Flags(), options)
	componentsCmd.Flags().StringVarP(&options.Screen, "screen", "s", "", "screen name used in diagnostics, derived from the file name when empty")
	componentsCmd.Flags().StringVarP(&blocksFor, "blocks", "b", "", "the screen's legacy block file, used to find features affected by upgrades")
	componentsCmd.Flags().BoolVar(&stdout, "stdout", false, "write the upgraded file to stdout")

	return componentsCmd
}
