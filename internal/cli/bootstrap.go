package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/waterrun/internal/roster"
)

// NewBootstrapCommand creates the bootstrap command.
func NewBootstrapCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Reconcile the ledger against the declared roster",
		Long: `Apply the declared roster once and exit.

If the roster's marker participant is missing, the participant table and run
log are replaced by the declared participants and their starting scores.
Otherwise missing participants are added and contacts refreshed.`,
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

			res, err := reconcile(cmd.Context(), a, f)
			if err != nil {
				return err
			}
			return f.Success(res, func(w io.Writer) {
				switch {
				case res.Seeded:
					fmt.Fprintf(w, "Seeded %d participant(s): %s\n", res.Participants, strings.Join(res.Added, ", "))
				case len(res.Added) > 0:
					fmt.Fprintf(w, "Added %d participant(s): %s\n", len(res.Added), strings.Join(res.Added, ", "))
				default:
					fmt.Fprintln(w, "Roster up to date.")
				}
			})
		},
	}
}

func reconcile(ctx context.Context, a *app, f *OutputFormatter) (roster.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := roster.Load(a.cfg.RosterFile)
	if err != nil {
		_ = f.Error(ErrCodeRoster, err.Error(), nil)
		return roster.Result{}, WrapExitError(ExitCommandError, "failed to load roster", err)
	}
	f.VerboseLog("Roster: %d participant(s), marker %q", len(r.Participants), r.Marker)

	res, err := roster.Reconcile(ctx, a.store, r, a.logger)
	if err != nil {
		return roster.Result{}, fail(f, "failed to reconcile roster", err)
	}
	return res, nil
}
