// Package assistant turns a free-form instruction into a suggested title and description.
// Suggestions are advisory; nothing here touches staged images.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"portfolioapi/internal/metrics"
	"portfolioapi/internal/model"
)

var (
	ErrUnavailable      = errors.New("assistant unavailable")
	ErrEmptyInstruction = errors.New("instruction is required")
)

// DefaultTimeout bounds a single suggestion round-trip.
const DefaultTimeout = 30 * time.Second

// UpstreamError wraps a failed or unparseable text-generation call.
// Its message carries the remote detail so it can be shown to the user as is.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return "text generation failed: " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// Generator produces free text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Assistant struct {
	gen     Generator
	timeout time.Duration
	reason  string
	metrics *metrics.Metrics
}

type Option func(*Assistant)

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assistant) { a.metrics = m }
}

// New returns an assistant backed by gen. A non-positive timeout selects DefaultTimeout.
func New(gen Generator, timeout time.Duration, opts ...Option) *Assistant {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	a := &Assistant{gen: gen, timeout: timeout}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Unavailable returns an assistant that refuses every request with ErrUnavailable.
func Unavailable(reason string, opts ...Option) *Assistant {
	a := &Assistant{reason: reason}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Assistant) Available() bool { return a.gen != nil }

// Reason explains why the assistant is unavailable.
func (a *Assistant) Reason() string { return a.reason }

func (a *Assistant) Suggest(ctx context.Context, instruction string) (model.Suggestion, error) {
	if a.gen == nil {
		a.metrics.AssistantRequest("unavailable")
		return model.Suggestion{}, ErrUnavailable
	}
	if strings.TrimSpace(instruction) == "" {
		a.metrics.AssistantRequest("invalid")
		return model.Suggestion{}, ErrEmptyInstruction
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.gen.Generate(ctx, BuildPrompt(instruction))
	if err != nil {
		a.metrics.AssistantRequest("upstream_error")
		log.Warn().Err(err).Dur("took", time.Since(start)).Msg("suggestion failed")
		return model.Suggestion{}, &UpstreamError{Err: err}
	}

	s, err := ParseSuggestion(raw)
	if err != nil {
		a.metrics.AssistantRequest("upstream_error")
		log.Warn().Err(err).Msg("suggestion unparseable")
		return model.Suggestion{}, &UpstreamError{Err: err}
	}

	a.metrics.AssistantRequest("ok")
	log.Debug().Dur("took", time.Since(start)).Msg("suggestion generated")
	return s, nil
}

const promptTemplate = `You write captions for the pages of an image portfolio.
Follow the user's instruction and answer with exactly these two lines and nothing else:
TITLE: <a short title, at most eight words>
DESCRIPTION: <one or two sentences describing the image>

Instruction: %s`

// BuildPrompt embeds the instruction verbatim in the fixed prompt.
func BuildPrompt(instruction string) string {
	return fmt.Sprintf(promptTemplate, instruction)
}

// ParseSuggestion extracts the TITLE and DESCRIPTION fields from a model response.
// Labels are case-insensitive and may be wrapped in markdown emphasis. Lines following
// DESCRIPTION are treated as its continuation.
func ParseSuggestion(raw string) (model.Suggestion, error) {
	var s model.Suggestion
	var desc []string
	inDesc := false

	for _, line := range strings.Split(raw, "\n") {
		clean := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		clean = strings.TrimSpace(strings.TrimLeft(clean, "-*# "))
		upper := strings.ToUpper(clean)

		switch {
		case strings.HasPrefix(upper, "TITLE:"):
			s.Title = strings.TrimSpace(clean[len("TITLE:"):])
			inDesc = false
		case strings.HasPrefix(upper, "DESCRIPTION:"):
			desc = []string{strings.TrimSpace(clean[len("DESCRIPTION:"):])}
			inDesc = true
		case inDesc && clean != "":
			desc = append(desc, clean)
		}
	}
	s.Description = strings.TrimSpace(strings.Join(desc, " "))

	if s.Title == "" || s.Description == "" {
		return model.Suggestion{}, fmt.Errorf("response is missing TITLE or DESCRIPTION: %q", truncate(raw, 200))
	}
	return s, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
