package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/points"
	"github.com/abhisek/quizcore/internal/ui/theme"
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Show the points balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		history, _ := cmd.Flags().GetBool("history")
		limit, _ := cmd.Flags().GetInt("limit")
		out := cmd.OutOrStdout()

		st := a.Engine().Points()
		fmt.Fprintf(out, "%s  %s\n",
			theme.Points.Render(fmt.Sprintf("◆ %d points", st.TotalPoints)),
			theme.Subtitle.Render(fmt.Sprintf("(earned %d, spent %d)", st.EarnedPoints, st.SpentPoints)))
		if !history {
			return nil
		}

		txs := st.PointsHistory
		if limit > 0 && len(txs) > limit {
			txs = txs[len(txs)-limit:]
		}

		fmt.Fprintf(out, "\n%-19s  %7s  %-20s  %s\n", "Timestamp", "Amount", "Reason", "Ref")
		fmt.Fprintln(out, strings.Repeat("─", 70))
		for _, tx := range txs {
			amount := fmt.Sprintf("+%d", tx.Amount)
			if tx.Type == points.Spent {
				amount = fmt.Sprintf("-%d", tx.Amount)
			}
			fmt.Fprintf(out, "%-19s  %7s  %-20s  %s\n",
				tx.Timestamp.Local().Format("2006-01-02 15:04:05"), amount, tx.Reason, txRef(tx))
		}
		return nil
	},
}

func txRef(tx points.Transaction) string {
	var parts []string
	if tx.QuizID != nil {
		parts = append(parts, *tx.QuizID)
	}
	if tx.QuestionID != nil {
		parts = append(parts, fmt.Sprintf("#%d", *tx.QuestionID))
	}
	if tx.HintID != nil {
		parts = append(parts, *tx.HintID)
	}
	return strings.Join(parts, " ")
}

func init() {
	pointsCmd.Flags().Bool("history", false, "Show the transaction history")
	pointsCmd.Flags().Int("limit", 20, "Number of most recent transactions to show (0 = all)")
}
