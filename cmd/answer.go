package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/nable/internal/engine"
	"github.com/abhisek/nable/internal/mastery"
	"github.com/abhisek/nable/internal/store"
)

var answerCmd = &cobra.Command{
	Use:   "answer <learner-id> <question-id> <correct|incorrect>",
	Short: "Record a scored answer and update the learner's state",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		learnerID, questionID := args[0], args[1]
		asJSON, _ := cmd.Flags().GetBool("json")

		correct, err := parseOutcome(args[2])
		if err != nil {
			return err
		}
		pool, err := readPool(cmd)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		state, err := e.requireState(ctx, learnerID)
		if err != nil {
			return err
		}

		up, err := e.eng.UpdateState(state, engine.Answer{
			QuestionID: questionID,
			Correct:    correct,
			Pool:       pool,
		})
		if errors.Is(err, engine.ErrSessionLocked) {
			return fmt.Errorf("%w (run `nable reset-session %s`)", err, learnerID)
		}
		if err != nil {
			return err
		}

		// The event and the state it produced land together or not at all.
		err = e.st.WithTx(ctx, func(states store.StateRepo, events store.EventRepo) error {
			if _, err := events.AppendAnswer(ctx, store.AnswerEventData{
				LearnerID:  learnerID,
				SessionID:  state.SessionID,
				QuestionID: questionID,
				Correct:    correct,
				Difficulty: up.State.LastDifficulty,
			}); err != nil {
				return err
			}
			return e.saveStateTo(ctx, states, up.State)
		})
		if err != nil {
			return fmt.Errorf("record answer: %w", err)
		}

		if asJSON {
			return writeJSON(cmd, up)
		}
		printUpdate(cmd, up, e.eng.MaxHearts())
		return nil
	},
}

func parseOutcome(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "right", "yes", "y", "1", "true":
		return true, nil
	case "incorrect", "wrong", "no", "n", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("outcome must be correct or incorrect, got %q", s)
}

func printUpdate(cmd *cobra.Command, up engine.Update, maxHearts int) {
	out := cmd.OutOrStdout()
	s := up.State
	fmt.Fprintf(out, "hearts %d/%d  streak %d  errors %d\n",
		s.Hearts, maxHearts, s.CurrentStreak, s.ConsecutiveErrors)
	for _, c := range up.Skills {
		fmt.Fprintf(out, "  %-24s %3d%% -> %3d%%\n", c.SkillID,
			mastery.DisplayPercent(c.Before.Mastery), mastery.DisplayPercent(c.After.Mastery))
	}
	if up.Transition.Milestone > 0 {
		fmt.Fprintf(out, "streak of %d!\n", up.Transition.Milestone)
	}
	if up.Transition.Locked() {
		fmt.Fprintln(out, "out of hearts: session locked")
	}
}

func init() {
	answerCmd.Flags().String("pool", "", "Candidate pool JSON file containing the question (- for stdin)")
	answerCmd.Flags().Bool("json", false, "Print the update as JSON")
}
