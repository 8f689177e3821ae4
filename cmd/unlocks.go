package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/ui/theme"
)

var unlocksCmd = &cobra.Command{
	Use:   "unlocks",
	Short: "Show newly unlocked quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ack, _ := cmd.Flags().GetBool("ack")
		out := cmd.OutOrStdout()

		pending := a.PendingUnlocks()
		if len(pending) == 0 {
			fmt.Fprintln(out, "No new unlocks.")
			return nil
		}
		for _, u := range pending {
			fmt.Fprintf(out, "%s  %s\n",
				theme.Unlocked.Render("🔓 "+u.QuizTitle),
				theme.Subtitle.Render(u.UnlockedAt.Local().Format("2006-01-02 15:04")))
			if ack {
				_, err := a.AcknowledgeUnlock(cmd.Context(), u.QuizID)
				if err := saved(cmd, err); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

var ackCmd = &cobra.Command{
	Use:   "ack <quiz>",
	Short: "Mark an unlock as seen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.AcknowledgeUnlock(cmd.Context(), args[0])
		if err := saved(cmd, err); err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no new unlock for quiz %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Acknowledged.")
		return nil
	},
}

func init() {
	unlocksCmd.Flags().Bool("ack", false, "Mark the listed unlocks as seen")
}
