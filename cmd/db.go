package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/store"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the SQLite database",
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored state blobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		infos, err := s.List(context.Background())
		if err != nil {
			return fmt.Errorf("list blobs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(infos) == 0 {
			fmt.Fprintln(out, "No saved state found.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %8s  %-19s  %s\n", "Key", "Sequence", "Updated", "Bytes")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, b := range infos {
			fmt.Fprintf(out, "%-16s  %8d  %-19s  %d\n",
				b.Key, b.Sequence, b.UpdatedAt.Local().Format("2006-01-02 15:04:05"), b.Size)
		}
		fmt.Fprintf(out, "\n%s\n", dbPath)
		return nil
	},
}

var dbViewCmd = &cobra.Command{
	Use:   "view <key>",
	Short: "Print a stored state blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		data, err := s.Load(context.Background(), args[0])
		if err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("no blob named %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbViewCmd)
}
