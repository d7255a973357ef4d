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
	rootCmd.AddCommand(NewBlocksCommand())
}

// writeOutput writes data to the configured output, or to stdout.
func writeOutput(options *converter.Options, data string, stdout bool) error {
	if stdout {
		_, err := fmt.Fprint(os.Stdout, data)
		return err
	}
	out := options.OutPath()
	if in, err := filepath.Abs(options.InFile); err == nil && in == out {
		return errors.Errorf("output %s would overwrite the input", out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(data), 0o644); err != nil {
		return errors.Errorf("write %s: %w", out, err)
	}
	return nil
}

func NewBlocksCommand() *cobra.Command {
	var (
		options = converter.NewOptions()
		stdout  bool
	)

	// blocksCmd represents the ai1convert blocks command
	var blocksCmd = &cobra.Command{
		Use:   "blocks <screen.blk>",
		Short: "convert one block file",
		Long:  "Convert a single legacy block document (.blk) into the current block format (.bky)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := applyConfig(c, options, args); err != nil {
				return err
			}
			conv, err := converter.NewWithOpts(options)
			if err != nil {
				return err
			}
			text, err := os.ReadFile(options.InFile)
			if err != nil {
				return errors.Errorf("read %s: %w", options.InFile, err)
			}
			res, err := conv.Blocks(options.Screen, filepath.Base(options.InFile), string(text))
			printDiagnostics(os.Stderr, res.Diagnostics)
			if err != nil {
				return err
			}
			if err := writeOutput(options, res.XML, stdout); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Converted %s: %s, %s\n", options.Screen,
				counted(res.NumBlocks, "block"), counted(len(res.TopLevel), "top-level block"))
			return nil
		},
	}
	bindOptions(blocksCmd.Flags(), options)
	blocksCmd.Flags().StringVarP(&options.Screen, "screen", "s", "", "screen name used in diagnostics, derived from the file name when empty")
	blocksCmd.Flags().BoolVar(&stdout, "stdout", false, "write the converted document to stdout")

	return blocksCmd
}
