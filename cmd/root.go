package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/logging"
	"github.com/abhisek/mathadventures/internal/store"
	"github.com/abhisek/mathadventures/internal/subject"
)

var rootCmd = &cobra.Command{
	Use:   "mathadv",
	Short: "Adaptive math practice in the terminal",
	Long: "Math Adventures: arithmetic practice that adapts its difficulty to the learner\n" +
		"using a performance score built from accuracy and response speed.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// Execute runs the root command. ctx is canceled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides MATHADV_DB env var)")
	pf.String("config", "", "Path to subjects YAML file (overrides MATHADV_CONFIG env var)")
	pf.String("subject", subject.DefaultSubject, "Subject profile to practice")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.String("log-format", string(logging.FormatText), "Log format: text or json")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHADV_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the session log database.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// resolveConfigPath returns --config, then MATHADV_CONFIG, then the XDG path.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return subject.DefaultPath()
}

// resolveSubject builds the engine configuration for --subject.
func resolveSubject(cmd *cobra.Command) (adaptive.Config, subject.Profile, error) {
	path, err := resolveConfigPath(cmd)
	if err != nil {
		return adaptive.Config{}, subject.Profile{}, err
	}
	name, _ := cmd.Flags().GetString("subject")
	return subject.Resolve(path, name)
}

// newLogger builds the stderr logger from --log-level and --log-format.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return logging.New(os.Stderr, level, logging.Format(format))
}
