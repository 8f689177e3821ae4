package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/app"
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/ui/components"
	"github.com/abhisek/quizcore/internal/ui/theme"
)

var playCmd = &cobra.Command{
	Use:   "play <quiz>",
	Short: "Play a quiz interactively",
	Long: `Answer the questions of a quiz one after another.

Type an answer and press Enter. Other input:
  :hints        list the hints of the current question
  :hint <id>    reveal a hint
  :skip         move on to the next open question
  :q            stop playing`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return runPlay(cmd, a, args[0])
	},
}

func runPlay(cmd *cobra.Command, a *app.App, quizID string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	st, err := a.StartQuiz(ctx, quizID)
	if err := saved(cmd, err); err != nil {
		return err
	}
	fmt.Fprintln(out, theme.Title.Render(st.Title))

	current, ok := nextOpen(st, 0)
	for ok {
		q, err := st.Question(current)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n── Question %d ── %s\n", q.ID,
			components.NewProgressBar("", st.Progress(), true, 30).View())
		fmt.Fprintln(out, theme.Body.Render(q.Text))
		fmt.Fprint(out, "\n> ")

		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch {
		case input == "":
			continue
		case input == ":q":
			return nil
		case input == ":skip":
			current, ok = nextOpen(st, current)
			continue
		case input == ":hints":
			printHints(out, a, quizID, current)
			continue
		case strings.HasPrefix(input, ":hint "):
			res, err := a.ApplyHint(ctx, quizID, current, strings.TrimSpace(strings.TrimPrefix(input, ":hint ")))
			if err := saved(cmd, err); err != nil {
				return err
			}
			if !res.Success {
				fmt.Fprintln(out, theme.Incorrect.Render(res.Error))
				continue
			}
			fmt.Fprintln(out, theme.Card.Render(res.HintContent))
			if res.PointsDeducted > 0 {
				fmt.Fprintln(out, theme.Points.Render(fmt.Sprintf("-%d points", res.PointsDeducted)))
			}
			continue
		}

		res, err := a.SubmitAnswer(ctx, quizID, current, input)
		if err := saved(cmd, err); err != nil {
			return err
		}
		printResult(out, res)
		if res.NewState != nil {
			st = res.NewState
		}
		if !res.IsCorrect {
			continue
		}
		if res.NextQuestionID == nil {
			break
		}
		current, ok = nextOpen(st, current)
	}

	fmt.Fprintf(out, "\n── %s: %d/%d solved ── %s\n",
		st.Title, st.CompletedQuestions, len(st.Questions),
		theme.Points.Render(fmt.Sprintf("◆ %d points", a.Engine().Points().TotalPoints)))
	return nil
}

// nextOpen returns the first answerable question with an id greater than
// after, wrapping around to the lowest one.
func nextOpen(st *quiz.State, after int) (int, bool) {
	first, found := 0, false
	for _, q := range st.Questions {
		if q.Status != quiz.StatusActive {
			continue
		}
		if q.ID > after {
			return q.ID, true
		}
		if !found {
			first, found = q.ID, true
		}
	}
	return first, found
}

func printHints(out io.Writer, a *app.App, quizID string, questionID int) {
	views, err := a.Engine().AvailableHints(quizID, questionID)
	if err != nil {
		fmt.Fprintln(out, theme.Incorrect.Render(err.Error()))
		return
	}
	for _, v := range views {
		line := fmt.Sprintf("  %-16s %-24s %3d", v.Hint.HintID(), v.Hint.HintTitle(), v.Hint.HintCost())
		switch {
		case v.Used:
			fmt.Fprintf(out, "%s  %s\n", theme.Correct.Render(line), theme.Hint.Render(v.Content))
		case v.CanUse:
			fmt.Fprintln(out, theme.Body.Render(line))
		default:
			fmt.Fprintf(out, "%s  %s\n", theme.Locked.Render(line), theme.Locked.Render(v.Reason))
		}
	}
}
