package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/content"
	"github.com/abhisek/quizcore/internal/ui/theme"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Work with quiz content files",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a YAML content file (default: the built-in quizzes)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *content.Catalog
			err error
		)
		if len(args) == 0 {
			c = content.Default()
		} else if c, err = content.Load(args[0]); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, cfg := range c.Configs() {
			lock := "open"
			if cfg.InitiallyLocked && cfg.UnlockCondition != nil {
				lock = "requires " + cfg.UnlockCondition.RequiredQuizID
			}
			fmt.Fprintf(out, "%-20s  %-30s  %3d questions  %-12s  %s\n",
				cfg.ID, cfg.Title, len(cfg.Questions), cfg.Mode, lock)
		}
		fmt.Fprintf(out, "\n%s\n", theme.Correct.Render(fmt.Sprintf("✓ %d quizzes valid", c.Len())))
		return nil
	},
}

func init() {
	contentCmd.AddCommand(contentValidateCmd)
}
