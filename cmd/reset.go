package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [quiz]",
	Short: "Reset the progress of one quiz, or everything with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		switch {
		case all && len(args) > 0:
			return fmt.Errorf("use a quiz ID or --all, not both")
		case !all && len(args) == 0:
			return fmt.Errorf("name a quiz to reset, or pass --all")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if all {
			if err := saved(cmd, a.ResetAll(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintln(out, "All progress, points and unlocks were reset.")
			return nil
		}

		st, err := a.ResetQuiz(cmd.Context(), args[0])
		if err := saved(cmd, err); err != nil {
			return err
		}
		fmt.Fprintf(out, "Progress of %q was reset. Points and unlocks are kept.\n", st.Title)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Reset every quiz, the points balance and all unlocks")
}
