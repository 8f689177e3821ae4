package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/engine"
	"github.com/abhisek/quizcore/internal/ui/theme"
)

var answerCmd = &cobra.Command{
	Use:   "answer <quiz> <question> <answer...>",
	Short: "Submit an answer to a question",
	Args:  cobra.MinimumNArgs(3),
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

		res, err := a.SubmitAnswer(cmd.Context(), args[0], questionID, strings.Join(args[2:], " "))
		if err := saved(cmd, err); err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func printResult(out io.Writer, res engine.SubmitResult) {
	if !res.IsCorrect {
		fmt.Fprintln(out, theme.Incorrect.Render("✗ Not quite."))
		for _, h := range res.TriggeredHints {
			fmt.Fprintf(out, "  %s %s\n", theme.Subtitle.Render(h.Title+":"), theme.Hint.Render(h.Content))
		}
		return
	}

	fmt.Fprintf(out, "%s %s\n",
		theme.Correct.Render("✓ Correct!"),
		theme.Points.Render(fmt.Sprintf("+%d points", res.PointsEarned)))
	if res.FunFact != "" {
		fmt.Fprintln(out, theme.Hint.Render(res.FunFact))
	}
	if res.CompletedQuiz {
		fmt.Fprintln(out, theme.Banner.Render("Quiz completed!"))
	}
	for _, q := range res.UnlockedQuizzes {
		fmt.Fprintln(out, theme.Unlocked.Render("🔓 Unlocked: "+q.Title))
	}
	if res.NextQuestionID != nil {
		fmt.Fprintf(out, "%s\n", theme.Subtitle.Render(fmt.Sprintf("Next question: %d", *res.NextQuestionID)))
	}
}
