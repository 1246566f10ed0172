package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/nable/internal/engine"
	"github.com/abhisek/nable/internal/selection"
	"github.com/abhisek/nable/internal/session"
	"github.com/abhisek/nable/internal/store"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <learner-id>",
	Short: "Pick the next question for a learner from a candidate pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		learnerID := args[0]
		subject, _ := cmd.Flags().GetString("subject")
		skills, _ := cmd.Flags().GetString("skills")
		asJSON, _ := cmd.Flags().GetBool("json")

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

		events := e.st.EventRepo()
		correct, err := events.CorrectQuestions(ctx, learnerID)
		if err != nil {
			return err
		}
		var recent []string
		if e.cfg.RecentAttempts > 0 {
			attempts, err := events.RecentAttempts(ctx, learnerID, e.cfg.RecentAttempts)
			if err != nil {
				return err
			}
			recent = store.QuestionIDs(attempts)
		}

		rec := e.eng.Recommend(state, engine.RecommendContext{
			ObjectiveSkills:   splitList(skills),
			SubjectID:         subject,
			AlreadyCorrect:    correct,
			RecentlyAttempted: recent,
		}, pool)

		if asJSON {
			return writeJSON(cmd, rec)
		}
		printRecommendation(cmd, rec)
		return nil
	},
}

func printRecommendation(cmd *cobra.Command, rec engine.Recommendation) {
	out := cmd.OutOrStdout()
	if rec.Question == nil {
		if rec.Status == session.StatusLocked {
			fmt.Fprintln(out, "session locked: out of hearts (run `nable reset-session`)")
			return
		}
		fmt.Fprintln(out, "no eligible question in the pool")
		return
	}

	q := rec.Question
	fmt.Fprintf(out, "%s  difficulty %g  skills %s\n", q.QuestionID, q.Difficulty, strings.Join(q.SubSkills, ","))
	fmt.Fprintf(out, "target %g (base %.2f, streak %+.1f, errors %+.1f)\n",
		rec.Target.Value, rec.Target.Base, rec.Target.Streak, rec.Target.Errors)
	r := rec.Rationale
	fmt.Fprintf(out, "score %.3f = proximity %.2f, need %.2f, novelty %.2f, distractor %.2f\n",
		r.Total, r.Proximity, r.SkillNeed, r.Novelty, r.DistractorFit)
	if rec.Relaxation != selection.RelaxNone {
		fmt.Fprintf(out, "relaxed %s exclusion (%d eligible)\n", rec.Relaxation, rec.Eligible)
	}
}

func init() {
	recommendCmd.Flags().String("pool", "", "Candidate pool JSON file (- for stdin)")
	recommendCmd.Flags().String("subject", "", "Restrict candidates to a subject")
	recommendCmd.Flags().String("skills", "", "Comma-separated objective skills")
	recommendCmd.Flags().Bool("json", false, "Print the full recommendation as JSON")
}
