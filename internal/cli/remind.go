package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRemindCommand creates the remind command.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remind",
		Short:         "Notify the top-ranked participant that they are up next",
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

			res, err := a.tracker.Remind(cmd.Context())
			if err != nil {
				return fail(f, "failed to remind", err)
			}
			return f.Success(res, func(w io.Writer) {
				fmt.Fprintf(w, "Next up: %s\n", res.Next.Name)
				renderNotification(w, res.Notification)
			})
		},
	}
}

// NewNotifyStatusCommand creates the notify-status command.
func NewNotifyStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "notify-status",
		Short:         "Report whether notifications are enabled and configured",
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

			st := a.tracker.NotifierStatus()
			return f.Success(st, func(w io.Writer) {
				fmt.Fprintf(w, "Enabled:    %t\n", st.Enabled)
				fmt.Fprintf(w, "Configured: %t\n", st.Configured)
			})
		},
	}
}
