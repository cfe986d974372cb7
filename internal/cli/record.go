package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/waterrun/internal/model"
	"github.com/roach88/waterrun/internal/notify"
	"github.com/roach88/waterrun/internal/tracker"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Mode   string
	Actors []int64
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a completed water run",
		Long: `Record a completed water run.

Alone runs take exactly one actor and earn 2 points; group runs take two or
more actors and earn 1 point each.

Example:
  waterrun record --mode alone --actor 3
  waterrun record --mode group --actor 1 --actor 4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "run mode (alone|group)")
	cmd.Flags().Int64SliceVarP(&opts.Actors, "actor", "a", nil, "participant id (repeatable)")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

func runRecord(opts *RecordOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	a, err := openApp(opts.RootOptions, cmd, f)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.tracker.RecordRun(cmd.Context(), tracker.RecordRequest{Mode: opts.Mode, Actors: opts.Actors})
	if err != nil {
		return fail(f, "failed to record run", err)
	}
	return f.Success(res, func(w io.Writer) {
		names := make(map[int64]string, len(res.NewState.People))
		for _, p := range res.NewState.People {
			names[p.ID] = p.Name
		}
		fmt.Fprintf(w, "Recorded run #%d (%s, +%d each) for %s\n",
			res.Run.ID, res.Run.Mode, res.Run.PointsEach,
			strings.Join(model.ResolveNames(res.Run.Actors, names), ", "))
		renderNotification(w, res.Notification)
	})
}

func renderNotification(w io.Writer, out notify.Outcome) {
	switch {
	case !out.Enabled:
		fmt.Fprintln(w, "Notification: disabled")
	case out.Delivered:
		fmt.Fprintf(w, "Notification: sent %q\n", out.Message)
	default:
		fmt.Fprintf(w, "Notification: failed (%s)\n", out.Error)
	}
}
