package components

import (
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/ui/theme"
)

// StatusIcon renders the marker shown next to a question.
func StatusIcon(s quiz.Status) string {
	switch s {
	case quiz.StatusSolved:
		return theme.Correct.Render("✓")
	case quiz.StatusActive:
		return theme.Points.Render("▸")
	default:
		return theme.Locked.Render("·")
	}
}

// LockIcon renders the marker shown next to a quiz.
func LockIcon(unlocked, completed bool) string {
	switch {
	case completed:
		return theme.Correct.Render("★")
	case unlocked:
		return theme.Unlocked.Render("○")
	default:
		return theme.Locked.Render("🔒")
	}
}
