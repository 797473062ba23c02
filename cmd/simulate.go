package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathadventures/internal/learner"
	"github.com/abhisek/mathadventures/internal/metrics"
	"github.com/abhisek/mathadventures/internal/report"
	"github.com/abhisek/mathadventures/internal/session"
	"github.com/abhisek/mathadventures/internal/store"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a session answered by a simulated learner",
	Long: "Plays a session with a simulated learner whose speed and accuracy depend on the\n" +
		"difficulty, printing each turn's scoring decision and a summary at the end.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		turns, _ := cmd.Flags().GetInt("turns")
		if turns <= 0 {
			return fmt.Errorf("--turns must be positive, got %d", turns)
		}
		seed, _ := cmd.Flags().GetUint64("seed")
		story, _ := cmd.Flags().GetBool("story")
		save, _ := cmd.Flags().GetBool("save")
		metricsOut, _ := cmd.Flags().GetString("metrics-out")

		opts := sessionOptions{mode: session.ModeSimulate, seed: seed, story: story}
		var st *store.Store
		if save || story {
			if st, err = openStore(cmd); err != nil {
				return err
			}
			defer st.Close()
			opts.llmRepo = st.EventRepo()
			if save {
				opts.repo = st.EventRepo()
			}
		}
		var m *metrics.Metrics
		if metricsOut != "" {
			m = metrics.New()
			opts.metrics = m
		}

		b, err := buildSession(ctx, cmd, logger, opts)
		if err != nil {
			return err
		}

		if seed == 0 {
			seed = rand.Uint64()
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, report.Banner(b.profile.Name, turns, b.state.Engine.Status()))

		runner := session.NewRunner(b.state, learner.NewSimulated(seed),
			session.WithTurnHook(func(r session.TurnReport) {
				fmt.Fprint(out, report.Turn(r))
			}))
		res, runErr := runner.Run(ctx, turns)

		fmt.Fprint(out, report.Summary(res))
		fmt.Fprint(out, report.DetailedLog(res))

		if m != nil {
			if b.story != nil {
				m.AddStoryFallbacks(b.story.Fallbacks)
			}
			if err := m.WriteFile(metricsOut); err != nil {
				return errors.Join(runErr, fmt.Errorf("write metrics: %w", err))
			}
		}
		return runErr
	},
}

func init() {
	f := simulateCmd.Flags()
	f.IntP("turns", "n", 15, "Number of turns to simulate")
	f.Uint64("seed", 0, "Seed for puzzles and learner behaviour (0 picks a random seed)")
	f.Bool("story", false, "Reword puzzles as story problems with the configured LLM")
	f.Bool("save", false, "Record the simulated session in the session log")
	f.String("metrics-out", "", "Write Prometheus metrics in text format to this file")
}
