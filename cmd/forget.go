package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget <learner-id>",
	Short: "Delete a learner's state and answer history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		learnerID := args[0]

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.st.EventRepo().DeleteLearner(ctx, learnerID); err != nil {
			return err
		}
		if err := e.st.StateRepo().Delete(ctx, learnerID); err != nil {
			return err
		}
		e.log.Info("learner forgotten", "learner_id", learnerID)

		fmt.Fprintf(cmd.OutOrStdout(), "forgot %s\n", learnerID)
		return nil
	},
}
