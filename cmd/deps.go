package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathadventures/internal/adaptive"
	"github.com/abhisek/mathadventures/internal/llm"
	"github.com/abhisek/mathadventures/internal/metrics"
	"github.com/abhisek/mathadventures/internal/puzzle"
	"github.com/abhisek/mathadventures/internal/session"
	"github.com/abhisek/mathadventures/internal/store"
	"github.com/abhisek/mathadventures/internal/subject"
	"github.com/abhisek/mathadventures/internal/tracker"
)

var errNoProvider = errors.New("no LLM provider configured (set MATHADV_LLM_PROVIDER and its API key, or ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY)")

// resolveLLMConfig prefers explicit MATHADV_* settings and falls back to
// the vendors' own API key variables.
func resolveLLMConfig() (llm.Config, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err == nil {
		return cfg, nil
	}
	if cfg, ok := llm.DiscoverConfig(); ok {
		return cfg, nil
	}
	return llm.Config{}, errNoProvider
}

// sessionOptions selects how a session is assembled.
type sessionOptions struct {
	mode     session.Mode
	maxTurns int
	seed     uint64 // zero means a random seed
	story    bool
	metrics  *metrics.Metrics

	// repo records session and turn events; llmRepo records LLM requests.
	repo    store.EventRepo
	llmRepo store.EventRepo
}

// sessionBundle is an assembled session and the parts callers report on.
type sessionBundle struct {
	state   *session.SessionState
	profile subject.Profile
	config  adaptive.Config
	story   *puzzle.StoryGenerator
}

// buildSession wires the engine, puzzle generator and tracker sinks for
// the selected subject.
func buildSession(ctx context.Context, cmd *cobra.Command, logger *slog.Logger, opts sessionOptions) (*sessionBundle, error) {
	cfg, prof, err := resolveSubject(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve subject: %w", err)
	}
	eng, err := adaptive.New(cfg)
	if err != nil {
		return nil, err
	}

	var gen puzzle.Generator = puzzle.NewTemplateGenerator(nil)
	if opts.seed != 0 {
		gen = puzzle.NewSeededTemplateGenerator(opts.seed)
	}

	b := &sessionBundle{profile: prof, config: cfg}
	if opts.story {
		llmCfg, err := resolveLLMConfig()
		if err != nil {
			return nil, err
		}
		provider, err := llm.NewProvider(ctx, llmCfg, opts.llmRepo, logger)
		if err != nil {
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
		b.story = puzzle.NewStoryGenerator(gen, provider, puzzle.DefaultStoryConfig(), logger)
		gen = b.story
	}

	sinks := []tracker.Sink{tracker.NewLogSink(logger)}
	if opts.repo != nil {
		sinks = append(sinks, tracker.NewStoreSink(opts.repo))
	}
	if opts.metrics != nil {
		sinks = append(sinks, tracker.NewMetricsSink(opts.metrics))
	}
	trk := tracker.New(cfg.FluencyThresholdSeconds, tracker.WithSinks(sinks...), tracker.WithLogger(logger))

	b.state = session.NewSessionState(prof.Name, opts.mode, opts.maxTurns, session.Deps{
		Engine:    eng,
		Generator: gen,
		Tracker:   trk,
		EventRepo: opts.repo,
		Logger:    logger,
	})
	return b, nil
}
