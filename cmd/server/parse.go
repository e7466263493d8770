package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ngamolsky/XtremeRepo/internal/core"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	validate bool
}

// newParseCmd classifies a local CSV file the same way the upload endpoint
// does and prints the records as JSON.
func newParseCmd() *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse <file.csv>",
		Short: "Classify a CSV export offline and print placements and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "Fail if any record would be rejected on commit")
	return cmd
}

func runParse(cmd *cobra.Command, path string, opts parseOptions) error {
	if err := core.CheckFileName(filepath.Base(path)); err != nil {
		return fmt.Errorf("%s (%s)", core.FormatUserError(err), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	batch := core.ParseCSV(data)

	out, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if batch.Dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d unrecognized rows dropped\n", batch.Dropped)
	}

	if opts.validate {
		if err := core.Validate(batch); err != nil {
			return err
		}
	}
	return nil
}
