package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathadventures/internal/app"
	"github.com/abhisek/mathadventures/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("turns", "n", 20, "Number of puzzles in the session (0 for no limit)")
	cmd.Flags().Bool("story", false, "Reword puzzles as story problems with the configured LLM")
}

// runPlay opens the store, assembles the session and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	turns, _ := cmd.Flags().GetInt("turns")
	story, _ := cmd.Flags().GetBool("story")
	b, err := buildSession(ctx, cmd, logger, sessionOptions{
		mode:     session.ModePlay,
		maxTurns: turns,
		story:    story,
		repo:     st.EventRepo(),
		llmRepo:  st.EventRepo(),
	})
	if err != nil {
		return err
	}

	res, err := app.Run(ctx, b.state)
	if err != nil {
		return err
	}
	if res.HasAttempts {
		fmt.Fprintf(cmd.OutOrStdout(), "Session saved: %d puzzles, %.1f%% correct, finished at %s.\n",
			res.Summary.TotalAttempts, res.Summary.AccuracyRate, res.Status.Difficulty)
	}
	return nil
}
