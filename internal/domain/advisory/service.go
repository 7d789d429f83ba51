package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/errors"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/metrics"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/retry"
)

const operation = "advisory"

// Service produces bilingual pesticide advisories.
type Service interface {
	Generate(ctx context.Context, req Request) (Record, error)
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ReportArchive stores rendered HTML and returns a retrievable URL.
type ReportArchive interface {
	Save(ctx context.Context, key string, html []byte) (string, error)
}

type service struct {
	cfg     Config
	client  ChatClient
	archive ReportArchive
	metrics *metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewService is a wire provider for the advisory domain. archive may be nil.
func NewService(cfg Config, client ChatClient, archive ReportArchive, recorder *metrics.Recorder, logger *slog.Logger) Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}
	return &service{
		cfg:     cfg,
		client:  client,
		archive: archive,
		metrics: recorder,
		logger:  logger.With("component", "advisory.service"),
		now:     time.Now,
	}
}

func (s *service) Generate(ctx context.Context, req Request) (Record, error) {
	input := Request{
		Pesticide: strings.TrimSpace(req.Pesticide),
		Crop:      strings.TrimSpace(req.Crop),
		Disease:   strings.TrimSpace(req.Disease),
	}
	if input.Pesticide == "" && input.Crop == "" && input.Disease == "" {
		return Record{}, apperrors.Wrap(apperrors.CodeInvalidInput, "pesticide, crop or disease is required", nil)
	}

	content, err := s.complete(ctx, buildPrompt(input))
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeProviderFailure, "advisory generation failed", err)
	}
	s.logger.Debug("advisory response received", "length", len(content))

	report, err := parseReport(content)
	if err != nil {
		s.logger.Warn("advisory response malformed", "error", err)
		return Record{}, err
	}
	report = applyFramerPatch(report)

	html, err := renderReport(report)
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeRender, "advisory rendering failed", err)
	}

	record := Record{Input: input, Structured: report, HTML: html}
	record.ReportURL = s.archiveReport(ctx, html)
	return record, nil
}

func (s *service) complete(ctx context.Context, prompt string) (string, error) {
	policy := retry.Policy{
		Name:        operation,
		MaxAttempts: s.cfg.MaxAttempts,
		Backoff:     s.cfg.Backoff,
		Retryable:   retry.RetryAll,
	}
	return retry.Do(ctx, policy, s.logger, func(ctx context.Context) (string, error) {
		resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
			Model: s.cfg.Model,
			Messages: []chatgpt.Message{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
			Temperature: s.cfg.Temperature,
		})
		s.metrics.LLMAttempt(operation, err)
		if err != nil {
			return "", err
		}
		s.metrics.LLMTokens(operation, resp.Usage)
		content := strings.TrimSpace(resp.Content())
		if content == "" {
			return "", errors.New("model returned no content")
		}
		return content, nil
	})
}

func (s *service) archiveReport(ctx context.Context, html string) string {
	if s.archive == nil {
		return ""
	}
	key := fmt.Sprintf("advisories/%s/%s.html", s.now().UTC().Format("2006/01/02"), uuid.NewString())
	url, err := s.archive.Save(ctx, key, []byte(html))
	if err != nil {
		s.logger.Warn("advisory report archive failed", "key", key, "error", err)
		return ""
	}
	return url
}
