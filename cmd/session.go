package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetSessionCmd = &cobra.Command{
	Use:   "reset-session <learner-id>",
	Short: "Start a new session with full hearts",
	Long: "Starts a new session for the learner: hearts are refilled, the session's\n" +
		"question list and error run are cleared. Mastery and the streak are kept.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		state, err := e.requireState(ctx, args[0])
		if err != nil {
			return err
		}
		prev := state.SessionID

		state = e.eng.ResetSession(state)
		if err := e.saveState(ctx, state); err != nil {
			return err
		}
		e.log.Info("session reset", "learner_id", state.LearnerID, "session_id", state.SessionID, "previous", prev)

		fmt.Fprintf(cmd.OutOrStdout(), "new session %s (%d hearts)\n", state.SessionID, state.Hearts)
		return nil
	},
}
