package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "suggest",
		Short:         "Suggest who should do the next run",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			a, err := openApp(rootOpts, cmd, f)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.tracker.Suggest(cmd.Context())
			if err != nil {
				return fail(f, "failed to suggest", err)
			}
			return f.Success(s, func(w io.Writer) {
				for i, p := range s.Suggested {
					fmt.Fprintf(w, "%d. %s (score %d, last run %s)\n", i+1, p.Name, p.Score, lastVisit(p))
				}
				fmt.Fprintln(w, s.Reason)
			})
		},
	}
}
