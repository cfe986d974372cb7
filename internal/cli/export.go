package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Type   string
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full run history",
		Long: `Export every readable run, newest first.

CSV has the columns id, timestamp, mode, actors, points_each. XLSX adds a
Standings sheet with the current leaderboard.

Example:
  waterrun export > water_runs.csv
  waterrun export --type xlsx --out water_runs.xlsx`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "csv", "export type (csv|xlsx)")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	if opts.Type != "csv" && opts.Type != "xlsx" {
		_ = f.Error(ErrCodeValidation, fmt.Sprintf("invalid export type %q: must be csv or xlsx", opts.Type), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("invalid export type %q", opts.Type))
	}

	a, err := openApp(opts.RootOptions, cmd, f)
	if err != nil {
		return err
	}
	defer a.Close()

	var buf bytes.Buffer
	if opts.Type == "xlsx" {
		err = a.tracker.ExportXLSX(cmd.Context(), &buf)
	} else {
		err = a.tracker.ExportCSV(cmd.Context(), &buf)
	}
	if err != nil {
		return fail(f, "failed to export", err)
	}

	if opts.Output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		_ = f.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write export", err)
	}
	f.VerboseLog("Wrote %d bytes to %s", buf.Len(), opts.Output)
	return nil
}
