package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/app"
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/ui/components"
	"github.com/abhisek/quizcore/internal/ui/theme"
)

var quizzesCmd = &cobra.Command{
	Use:     "quizzes",
	Aliases: []string{"ls"},
	Short:   "List all quizzes with progress and lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		eng := a.Engine()
		for _, cfg := range eng.Catalog() {
			unlocked, err := eng.IsQuizUnlocked(cfg.ID)
			if err != nil {
				return err
			}
			progress, err := eng.QuizProgress(cfg.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s %s  %s\n",
				components.LockIcon(unlocked, eng.IsQuizCompleted(cfg.ID)),
				theme.Title.Render(cfg.Title),
				theme.Subtitle.Render(fmt.Sprintf("(%s, %d questions)", cfg.ID, len(cfg.Questions))))

			if unlocked {
				fmt.Fprintf(out, "  %s\n", components.NewProgressBar("", progress, true, 40).View())
				continue
			}
			if err := printLockedReason(out, a, cfg); err != nil {
				return err
			}
		}

		pts := eng.Points()
		fmt.Fprintf(out, "\n%s\n", theme.Points.Render(fmt.Sprintf("◆ %d points", pts.TotalPoints)))
		return nil
	},
}

func printLockedReason(out io.Writer, a *app.App, cfg quiz.Config) error {
	p, err := a.Engine().UnlockProgress(cfg.ID)
	if err != nil {
		return err
	}
	if p.Condition == nil {
		return nil
	}
	required := p.Condition.RequiredQuizID
	if rc, ok := a.Catalog().Get(required); ok {
		required = rc.Title
	}

	var need string
	if p.Condition.IsProgressBased() {
		need = fmt.Sprintf("solve %d questions in %s", p.Required, required)
	} else {
		need = fmt.Sprintf("complete %s", required)
	}
	fmt.Fprintf(out, "  %s\n", theme.Locked.Render(fmt.Sprintf("locked: %s (%d/%d)", need, p.Solved, p.Required)))
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show <quiz>",
	Short: "Show the questions of a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.StartQuiz(cmd.Context(), args[0])
		if err := saved(cmd, err); err != nil {
			return err
		}
		printQuiz(cmd.OutOrStdout(), st)
		return nil
	},
}

func printQuiz(out io.Writer, st *quiz.State) {
	fmt.Fprintln(out, theme.Title.Render(st.Title))
	fmt.Fprintln(out, components.NewProgressBar("", st.Progress(), true, 40).View())
	fmt.Fprintln(out, strings.Repeat("─", 40))

	for _, q := range st.Questions {
		text := q.Text
		switch q.Status {
		case quiz.StatusInactive:
			text = "(locked)"
		case quiz.StatusSolved:
			text += "  " + theme.Correct.Render(q.Answer)
		}
		fmt.Fprintf(out, "%s %3d  %s\n", components.StatusIcon(q.Status), q.ID, text)
	}
}
