package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/errors"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/metrics"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/retry"
)

const (
	operation       = "chat"
	defaultLanguage = "Marathi"
	bullet          = "• "
)

// Service answers farmer questions in short bullet points.
type Service interface {
	Respond(ctx context.Context, message string) (string, error)
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg     Config
	client  ChatClient
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// NewService is a wire provider for the chat domain.
func NewService(cfg Config, client ChatClient, recorder *metrics.Recorder, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 20 * time.Second
	}
	return &service{
		cfg:     cfg,
		client:  client,
		metrics: recorder,
		logger:  logger.With("component", "chat.service"),
	}
}

func (s *service) Respond(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.Wrap(apperrors.CodeEmptyMessage, "message cannot be empty", nil)
	}

	// only quota signals are worth waiting out
	policy := retry.Policy{
		Name:        operation,
		MaxAttempts: s.cfg.MaxAttempts,
		Backoff:     s.cfg.Backoff,
		Retryable:   chatgpt.IsResourceExhausted,
	}
	reply, err := retry.Do(ctx, policy, s.logger, func(ctx context.Context) (string, error) {
		resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
			Model:       s.cfg.Model,
			Messages:    []chatgpt.Message{{Role: "user", Content: s.instruction(message)}},
			Temperature: s.cfg.Temperature,
		})
		s.metrics.LLMAttempt(operation, err)
		if err != nil {
			return "", err
		}
		s.metrics.LLMTokens(operation, resp.Usage)
		return resp.Content(), nil
	})
	if err != nil {
		s.logger.Error("chat reply failed", "error", err)
		return "", apperrors.Wrap(apperrors.CodeProviderFailure, "chat provider failed", err)
	}
	return formatBullets(reply), nil
}

func (s *service) instruction(message string) string {
	return fmt.Sprintf("Answer the following question in simple %s.\nUse short bullet points that a farmer can easily understand.\n\nQuestion: %s", s.cfg.Language, message)
}

// formatBullets puts each non-empty line on its own bullet, keeping existing markers.
func formatBullets(reply string) string {
	lines := strings.Split(reply, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !hasBulletMarker(line) {
			line = bullet + line
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func hasBulletMarker(line string) bool {
	return strings.HasPrefix(line, "•") || strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")
}
