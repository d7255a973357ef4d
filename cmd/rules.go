package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cmmoran/ai1convert/pkg/converter"
)

func init() {
	rootCmd.AddCommand(NewRulesCommand())
}

func NewRulesCommand() *cobra.Command {
	var catalogs []string

	// rulesCmd represents the ai1convert rules command
	var rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "list block conversion rules",
		Long:  "List every legacy block genus the converter knows with the block type and role it converts to",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			conv, err := converter.New(converter.WithCatalogFiles(catalogs...))
			if err != nil {
				return err
			}
			printRules(os.Stdout, conv.Rules())
			return nil
		},
	}
	rulesCmd.Flags().StringSliceVar(&catalogs, "catalog", []string{}, "extra component catalog file(s) merged over the built-in catalog")

	return rulesCmd
}
