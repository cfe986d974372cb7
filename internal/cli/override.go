package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// OverrideOptions holds flags for the override command.
type OverrideOptions struct {
	*RootOptions
	Participant int64
	Score       int
}

// NewOverrideCommand creates the override command.
func NewOverrideCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OverrideOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "override",
		Short: "Set a participant's score from now on",
		Long: `Append a score_override event that sets the participant's score.

Later runs add to the overridden value. The override does not count as a run
for last-visit purposes.

Example:
  waterrun override --participant 2 --score 10`,
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

			state, err := a.tracker.OverrideScore(cmd.Context(), opts.Participant, opts.Score)
			if err != nil {
				return fail(f, "failed to override score", err)
			}
			return f.Success(state, func(w io.Writer) { renderState(w, state) })
		},
	}

	cmd.Flags().Int64VarP(&opts.Participant, "participant", "p", 0, "participant id")
	cmd.Flags().IntVarP(&opts.Score, "score", "s", 0, "new score")
	_ = cmd.MarkFlagRequired("participant")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
