package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <learner-id>",
	Short: "Create a learner with a fresh state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		learnerID := args[0]
		force, _ := cmd.Flags().GetBool("force")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		_, found, err := e.loadState(ctx, learnerID)
		if err != nil {
			return err
		}
		if found && !force {
			return fmt.Errorf("learner %q already exists (use --force to start over)", learnerID)
		}

		if found {
			if err := e.st.EventRepo().DeleteLearner(ctx, learnerID); err != nil {
				return err
			}
		}

		state := e.eng.CreateInitialState(learnerID)
		if err := e.saveState(ctx, state); err != nil {
			return err
		}
		e.log.Info("learner created", "learner_id", learnerID, "session_id", state.SessionID)

		fmt.Fprintf(cmd.OutOrStdout(), "created %s (session %s, %d hearts)\n", learnerID, state.SessionID, state.Hearts)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Replace an existing learner's state and answer history")
}
