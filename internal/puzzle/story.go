package puzzle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/mathadventures/internal/difficulty"
	"github.com/abhisek/mathadventures/internal/llm"
	"github.com/abhisek/mathadventures/internal/logging"
)

// StorySchema is the response shape requested from the LLM.
var StorySchema = &llm.Schema{
	Name:        "story-puzzle",
	Description: "An arithmetic expression reworded as a short word problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The word problem shown to the child, one or two sentences",
			},
			"answer": map[string]any{
				"type":        "integer",
				"description": "The integer answer to the word problem",
			},
		},
		"required":             []any{"question_text", "answer"},
		"additionalProperties": false,
	},
}

const storySystemPrompt = `You turn arithmetic expressions into short word problems for children aged 5-10.

Rules:
- Keep every number from the expression exactly as written, using digits.
- Do not change the operation or its order. The answer must equal the expression's value.
- One or two short sentences, ending with a question.
- Use friendly everyday settings: fruit, animals, toys, games.
- Do not repeat a story from the "already used" list.`

// StoryConfig controls the StoryGenerator.
type StoryConfig struct {
	MaxTokens   int
	Temperature float64

	// MaxPriorStories caps how many earlier stories are sent for dedup.
	MaxPriorStories int

	// Timeout bounds a single rewording request. Zero means no extra bound.
	Timeout time.Duration
}

// DefaultStoryConfig returns the recommended settings.
func DefaultStoryConfig() StoryConfig {
	return StoryConfig{
		MaxTokens:       256,
		Temperature:     0.8,
		MaxPriorStories: 6,
		Timeout:         15 * time.Second,
	}
}

// StoryGenerator rewords puzzles from a base generator as word problems.
// Any LLM failure, or a story whose answer or numbers differ from the base
// puzzle, falls back to the base puzzle unchanged.
type StoryGenerator struct {
	base     Generator
	provider llm.Provider
	config   StoryConfig
	logger   *slog.Logger

	prior     []string
	Fallbacks int
}

// NewStoryGenerator wraps base with LLM rewording.
func NewStoryGenerator(base Generator, provider llm.Provider, cfg StoryConfig, logger *slog.Logger) *StoryGenerator {
	return &StoryGenerator{
		base:     base,
		provider: provider,
		config:   cfg,
		logger:   logging.OrDiscard(logger),
	}
}

type storyOutput struct {
	QuestionText string `json:"question_text"`
	Answer       int    `json:"answer"`
}

func (g *StoryGenerator) Generate(ctx context.Context, level difficulty.Level) (*Puzzle, error) {
	p, err := g.base.Generate(ctx, level)
	if err != nil {
		return nil, err
	}

	text, err := g.reword(ctx, p)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		g.Fallbacks++
		g.logger.Warn("story rewording failed, using plain puzzle",
			"expression", p.Expression, "error", err)
		return p, nil
	}

	g.remember(text)
	story := *p
	story.Question = text
	return &story, nil
}

func (g *StoryGenerator) reword(ctx context.Context, p *Puzzle) (string, error) {
	ctx = llm.WithPurpose(ctx, "story")
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      storySystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: g.userMessage(p)}},
		Schema:      StorySchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}

	var out storyOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if err := checkStory(out, p); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.QuestionText), nil
}

func (g *StoryGenerator) userMessage(p *Puzzle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Expression: %s\n", p.Expression)
	fmt.Fprintf(&b, "Answer: %d\n", p.Answer)
	fmt.Fprintf(&b, "Difficulty: %s\n", p.Difficulty)
	b.WriteString("\nAlready used:\n")
	if len(g.prior) == 0 {
		b.WriteString("None")
	}
	for i, s := range g.prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (g *StoryGenerator) remember(text string) {
	g.prior = append(g.prior, text)
	if n := g.config.MaxPriorStories; n > 0 && len(g.prior) > n {
		g.prior = g.prior[len(g.prior)-n:]
	}
}

var numberRe = regexp.MustCompile(`\d+`)

// checkStory rejects stories with the wrong answer or missing operands.
func checkStory(out storyOutput, p *Puzzle) error {
	if strings.TrimSpace(out.QuestionText) == "" {
		return errors.New("empty story")
	}
	if out.Answer != p.Answer {
		return fmt.Errorf("story answer %d does not match %d", out.Answer, p.Answer)
	}

	var found []int
	for _, m := range numberRe.FindAllString(out.QuestionText, -1) {
		if n, err := strconv.Atoi(m); err == nil {
			found = append(found, n)
		}
	}
	for _, op := range p.Operands {
		if !slices.Contains(found, op) {
			return fmt.Errorf("story is missing operand %d", op)
		}
	}
	return nil
}
