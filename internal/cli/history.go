package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/waterrun/internal/tracker"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Page  int
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List recorded runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts.RootOptions, cmd)
			a, err := openApp(opts.RootOptions, cmd, f)
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.tracker.History(cmd.Context(), opts.Page, opts.Limit)
			if err != nil {
				return fail(f, "failed to read history", err)
			}
			return f.Success(runs, func(w io.Writer) {
				if len(runs) == 0 {
					fmt.Fprintln(w, "No runs.")
					return
				}
				for _, r := range runs {
					fmt.Fprintf(w, "#%-5d %s  %-14s %+d  %s\n",
						r.ID, r.Timestamp, r.Mode, r.PointsEach, strings.Join(r.ActorNames, ", "))
				}
			})
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&opts.Limit, "limit", tracker.DefaultHistoryLimit, fmt.Sprintf("runs per page (max %d)", tracker.MaxHistoryLimit))

	return cmd
}
