// Package agents implements the turn agents of an interview. Each agent
// mutates the session state it is given and never returns an error: failures
// either move the session into the error status or fall back to a safe
// default, depending on the stage.
package agents

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/services"
)

// Generator turns a prompt into text. *services.Gateway satisfies it.
type Generator interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// RubricRetriever returns reference material for scoring answers of an
// interview type.
type RubricRetriever interface {
	RetrieveRubric(ctx context.Context, interviewType, query string) (string, error)
}

type Config struct {
	MaxQuestions int
	MaxFollowUps int
}

type Agents struct {
	gen          Generator
	sanitizer    *services.Sanitizer
	retriever    RubricRetriever
	maxQuestions int
	maxFollowUps int
	log          *zap.Logger
}

func New(gen Generator, sanitizer *services.Sanitizer, cfg Config, log *zap.Logger) *Agents {
	if sanitizer == nil {
		sanitizer = services.NewDefaultSanitizer()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Agents{
		gen:          gen,
		sanitizer:    sanitizer,
		maxQuestions: cfg.MaxQuestions,
		maxFollowUps: cfg.MaxFollowUps,
		log:          log,
	}
}

// WithRetriever enables rubric retrieval for answer evaluation.
func (a *Agents) WithRetriever(r RubricRetriever) *Agents {
	a.retriever = r
	return a
}

// clean sanitizes candidate-supplied text before it is embedded in a prompt.
func (a *Agents) clean(text string) string {
	return a.sanitizer.Sanitize(text)
}

func (a *Agents) generateJSON(ctx context.Context, prompt string, v any) error {
	text, err := a.gen.Invoke(ctx, prompt)
	if err != nil {
		return err
	}
	return services.ExtractJSON(text, v)
}

// failureReason gives a user-facing description of an agent failure without
// leaking provider messages.
func failureReason(err error) string {
	switch {
	case errors.Is(err, services.ErrParseFailed):
		return "Could not parse response"
	case errors.Is(err, services.ErrGenerationFailed):
		return "Generation service unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "Request timed out"
	default:
		return "Unexpected error"
	}
}
