package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/ui/theme"
)

var hintsCmd = &cobra.Command{
	Use:   "hints <quiz> <question>",
	Short: "List the hints of a question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		questionID, err := parseQuestionID(args[1])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		views, err := a.Engine().AvailableHints(args[0], questionID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s  %-24s  %-12s  %4s  %s\n", "ID", "Title", "Kind", "Cost", "Status")
		fmt.Fprintln(out, theme.Locked.Render("────────────────────────────────────────────────────────────────────────"))
		for _, v := range views {
			status := theme.Unlocked.Render("available")
			switch {
			case v.Used:
				status = theme.Correct.Render("revealed")
			case !v.CanUse:
				status = theme.Locked.Render(v.Reason)
			}
			fmt.Fprintf(out, "%-16s  %-24s  %-12s  %4d  %s\n",
				v.Hint.HintID(), v.Hint.HintTitle(), v.Hint.Kind(), v.Hint.HintCost(), status)
			if v.Used && v.Content != "" {
				fmt.Fprintf(out, "  %s\n", theme.Hint.Render(v.Content))
			}
		}

		fmt.Fprintf(out, "\n%s\n", theme.Points.Render(fmt.Sprintf("◆ %d points", a.Engine().Points().TotalPoints)))
		return nil
	},
}

var hintCmd = &cobra.Command{
	Use:   "hint <quiz> <question> <hint-id>",
	Short: "Reveal a hint, paying its cost in points",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		questionID, err := parseQuestionID(args[1])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.ApplyHint(cmd.Context(), args[0], questionID, args[2])
		if err := saved(cmd, err); err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("hint not applied: %s", res.Error)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Card.Render(res.HintContent))
		if res.PointsDeducted > 0 {
			fmt.Fprintln(out, theme.Points.Render(fmt.Sprintf("-%d points", res.PointsDeducted)))
		}
		return nil
	},
}
