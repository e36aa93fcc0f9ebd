package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/prompts"
	"github.com/yungbote/simple-explain/internal/modules/explain/validation"
	"github.com/yungbote/simple-explain/internal/observability"
	"github.com/yungbote/simple-explain/internal/platform/apierr"
	"github.com/yungbote/simple-explain/internal/platform/logger"
	"github.com/yungbote/simple-explain/internal/platform/openai"
)

var ErrMissingInput = errors.New("missing topic or lang")

// Generator is the slice of the OpenAI client the explain service needs.
type Generator interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type ExplainService interface {
	// Generate resolves the prompt, calls the model and returns a validated
	// payload. Errors are *apierr.Error values.
	Generate(ctx context.Context, req explain.GenerateRequest) (explain.GenerateResponse, error)
	Variant() explain.Variant
	// Ready reports whether a model client is configured.
	Ready() bool
}

type ExplainConfig struct {
	Variant explain.Variant
	Timeout time.Duration
}

type explainService struct {
	log     *logger.Logger
	ai      Generator
	variant explain.Variant
	timeout time.Duration
	group   singleflight.Group
}

// NewExplainService builds the generation service. ai may be nil when no API
// key is configured; Generate then reports not_configured.
func NewExplainService(log *logger.Logger, ai Generator, cfg ExplainConfig) ExplainService {
	variant := cfg.Variant
	if !variant.Valid() {
		variant = explain.VariantLesson
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &explainService{
		log:     log.With("service", "ExplainService"),
		ai:      ai,
		variant: variant,
		timeout: timeout,
	}
}

func (s *explainService) Variant() explain.Variant { return s.variant }

func (s *explainService) Ready() bool { return s.ai != nil }

func (s *explainService) Generate(ctx context.Context, req explain.GenerateRequest) (explain.GenerateResponse, error) {
	topic := strings.TrimSpace(req.Topic)
	rawLang := strings.TrimSpace(req.Lang)
	if topic == "" || (s.variant == explain.VariantEssay && rawLang == "") {
		return explain.GenerateResponse{}, apierr.BadRequest(ErrMissingInput)
	}
	if s.ai == nil {
		return explain.GenerateResponse{}, apierr.New(http.StatusInternalServerError, apierr.CodeNotConfigured, openai.ErrNotConfigured)
	}
	lang := locale.Normalize(rawLang)
	level := explain.NormalizeLevel(req.Level)

	ctx, span := otel.Tracer("simple-explain/services").Start(ctx, "ExplainService.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("explain.variant", string(s.variant)),
		attribute.String("explain.lang", string(lang)),
		attribute.String("explain.level", string(level)),
	)

	in := prompts.Input{Topic: topic, Lang: lang, Level: level}
	name := prompts.PromptLesson
	if s.variant == explain.VariantEssay {
		name = prompts.PromptEssay
	}
	prompt, err := prompts.Build(name, in)
	if err != nil {
		return explain.GenerateResponse{}, apierr.BadRequest(err)
	}

	key := string(s.variant) + "|" + prompt.Fingerprint()
	ch := s.group.DoChan(key, func() (any, error) {
		// Shared by every waiter, so it outlives any single caller.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.run(callCtx, prompt, level)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		s.observe(lang, "canceled")
		span.SetStatus(codes.Error, "canceled")
		return explain.GenerateResponse{}, apierr.New(http.StatusInternalServerError, apierr.CodeGenerationFailed, ctx.Err())
	case res = <-ch:
	}

	if res.Err != nil {
		outcome, apiErr := classify(res.Err)
		s.observe(lang, outcome)
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, outcome)
		s.log.Warn("Generation failed",
			"variant", s.variant,
			"lang", lang,
			"outcome", outcome,
			"shared", res.Shared,
			"error", res.Err,
		)
		return explain.GenerateResponse{}, apiErr
	}
	s.observe(lang, "ok")
	return res.Val.(explain.GenerateResponse), nil
}

func (s *explainService) run(ctx context.Context, prompt prompts.Prompt, level explain.Level) (explain.GenerateResponse, error) {
	start := time.Now()
	if s.variant == explain.VariantEssay {
		text, err := s.ai.GenerateText(ctx, prompt.System, prompt.User)
		if err != nil {
			return explain.GenerateResponse{}, err
		}
		essay, err := validation.ValidateEssay(text)
		if err != nil {
			return explain.GenerateResponse{}, err
		}
		s.log.Debug("Essay generated", "level", level, "duration", time.Since(start).String())
		return explain.GenerateResponse{Essay: &essay, Level: level}, nil
	}

	obj, err := s.ai.GenerateJSON(ctx, prompt.System, prompt.User, prompt.SchemaName, prompt.Schema)
	if err != nil {
		return explain.GenerateResponse{}, err
	}
	lesson, err := validation.ValidateLesson(obj)
	if err != nil {
		return explain.GenerateResponse{}, err
	}
	s.log.Debug("Lesson generated", "topic", lesson.Topic, "duration", time.Since(start).String())
	return explain.GenerateResponse{Lesson: &lesson}, nil
}

func (s *explainService) observe(lang locale.Lang, outcome string) {
	observability.Current().IncGeneration(string(s.variant), string(lang), outcome)
}

func classify(err error) (string, *apierr.Error) {
	switch {
	case errors.Is(err, openai.ErrNotConfigured):
		return "failed", apierr.New(http.StatusInternalServerError, apierr.CodeNotConfigured, err)
	case validation.IsShapeError(err), errors.Is(err, openai.ErrInvalidOutput):
		return "invalid_response", apierr.New(http.StatusInternalServerError, apierr.CodeInvalidResponse, err)
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout", apierr.New(http.StatusInternalServerError, apierr.CodeGenerationFailed, fmt.Errorf("generation timed out: %w", err))
	default:
		return "failed", apierr.New(http.StatusInternalServerError, apierr.CodeGenerationFailed, err)
	}
}
