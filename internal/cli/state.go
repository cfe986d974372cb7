package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/waterrun/internal/model"
	"github.com/roach88/waterrun/internal/tracker"
)

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "state",
		Short:         "Show the leaderboard",
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

			state, err := a.tracker.State(cmd.Context())
			if err != nil {
				return fail(f, "failed to read state", err)
			}
			return f.Success(state, func(w io.Writer) { renderState(w, state) })
		},
	}
}

func renderState(w io.Writer, state tracker.State) {
	if len(state.People) == 0 {
		fmt.Fprintln(w, "No participants.")
		return
	}
	fmt.Fprintf(w, "%-4s %-20s %6s  %s\n", "ID", "NAME", "SCORE", "LAST RUN")
	for _, s := range state.People {
		fmt.Fprintf(w, "%-4d %-20s %6d  %s\n", s.ID, s.Name, s.Score, lastVisit(s))
	}
	fmt.Fprintf(w, "\nTotal runs: %d\n", state.TotalRuns)
}

func lastVisit(s model.Standing) string {
	if s.LastVisit == nil {
		return "never"
	}
	return *s.LastVisit
}
