package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/nable/internal/display"
)

var showCmd = &cobra.Command{
	Use:   "show <learner-id>",
	Short: "Show a learner's hearts, streak and per-skill mastery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		asJSON, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		width, _ := cmd.Flags().GetInt("width")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		state, err := e.requireState(ctx, args[0])
		if err != nil {
			return err
		}

		opts := display.DefaultOptions()
		opts.Mastery = e.eng.Config().Mastery
		view := display.ProjectWith(state, e.eng.MaxHearts(), e.eng.Now(), opts)

		if asJSON {
			return writeJSON(cmd, view)
		}
		if !cmd.Flags().Changed("plain") {
			plain = !isTerminal(cmd)
		}
		fmt.Fprintln(cmd.OutOrStdout(), display.Renderer{Width: width, Plain: plain}.Render(view))
		return nil
	},
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	showCmd.Flags().Bool("json", false, "Print the view as JSON")
	showCmd.Flags().Bool("plain", false, "Disable colors and styling")
	showCmd.Flags().Int("width", display.DefaultWidth, "Output width in columns")
}
