package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcore/internal/app"
	"github.com/abhisek/quizcore/internal/config"
	"github.com/abhisek/quizcore/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizcore",
	Short: "Content quiz with hints, points and unlockable quizzes",
	Long: `quizcore runs content quizzes from the terminal.

Answer questions to earn points, spend points on hints and complete quizzes
to unlock new ones. Progress is saved after every step.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZCORE_DB env var)")
	rootCmd.PersistentFlags().String("backend", "", "Persistence backend: sqlite, redis or memory (overrides QUIZCORE_BACKEND)")
	rootCmd.PersistentFlags().String("content", "", "YAML content file (overrides QUIZCORE_CONTENT, default: built-in quizzes)")

	rootCmd.AddCommand(quizzesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(hintsCmd)
	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(unlocksCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies the command line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		cfg.Backend = b
	}
	if c, _ := cmd.Flags().GetString("content"); c != "" {
		cfg.ContentPath = c
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZCORE_DB from the environment or .env, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func newLogger(cfg config.Config) *slog.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openApp builds the app for one command invocation. The caller closes it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(cmd.Context(), app.Options{
		Config: cfg,
		Logger: newLogger(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("open quizcore: %w", err)
	}
	return a, nil
}

// saved prints a save warning instead of failing the command.
func saved(cmd *cobra.Command, err error) error {
	if err != nil && app.IsSaveWarning(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
		return nil
	}
	return err
}

func parseQuestionID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid question ID %q: must be a number", s)
	}
	return id, nil
}
