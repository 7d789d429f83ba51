package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/advisory"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/alerts"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/chat"
	apperrors "github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	alertsSvc   alerts.Service
	advisorySvc advisory.Service
	chatSvc     chat.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(alertsSvc alerts.Service, advisorySvc advisory.Service, chatSvc chat.Service, logger *slog.Logger) *Handler {
	return &Handler{
		alertsSvc:   alertsSvc,
		advisorySvc: advisorySvc,
		chatSvc:     chatSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// GetAlerts evaluates the pesticide and irrigation rules for a location.
func (h *Handler) GetAlerts(c *gin.Context) {
	var req alerts.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "location is required", nil))
		return
	}

	c.JSON(http.StatusOK, h.alertsSvc.GetAlerts(c.Request.Context(), req))
}

// GenerateAdvisory returns the bilingual pesticide advisory.
func (h *Handler) GenerateAdvisory(c *gin.Context) {
	var req advisory.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	record, err := h.advisorySvc.Generate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}

	c.JSON(http.StatusOK, record)
}

// Chat answers a farmer question with a bulleted reply.
func (h *Handler) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	reply, err := h.chatSvc.Respond(c.Request.Context(), req.Message)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}

	c.JSON(http.StatusOK, chat.Response{Reply: reply})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// domainError maps service error codes onto HTTP statuses.
func domainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeEmptyMessage:
		return NewHTTPError(http.StatusBadRequest, code, errMessage(err), err)
	case apperrors.CodeProviderFailure, apperrors.CodeInvalidResponse, apperrors.CodeWeather:
		return NewHTTPError(http.StatusBadGateway, code, errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal_error", errMessage(err), err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
