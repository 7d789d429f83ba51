package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/metrics"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/util"
)

const timestampLayout = "2006-01-02 15:04:05"

// Service builds the farmer's alert cards.
type Service interface {
	GetAlerts(ctx context.Context, req Request) []Notification
}

type WeatherClient interface {
	FetchForecast(ctx context.Context, query ForecastQuery) ([]ForecastDay, error)
}

// Notifier delivers a text message. Failures are reported as false, never as errors.
type Notifier interface {
	Send(ctx context.Context, to, body string) bool
}

type DispatchLog interface {
	Append(ctx context.Context, record DispatchRecord) error
}

type service struct {
	cfg      Config
	weather  WeatherClient
	notifier Notifier
	dispatch DispatchLog
	metrics  *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the alerts domain.
func NewService(cfg Config, weather WeatherClient, notifier Notifier, dispatch DispatchLog, recorder *metrics.Recorder, logger *slog.Logger) Service {
	if cfg.RainThresholdMM <= 0 {
		cfg.RainThresholdMM = DefaultRainThresholdMM
	}
	if cfg.PesticideWindowDays <= 0 {
		cfg.PesticideWindowDays = 14
	}
	if cfg.Location == nil {
		cfg.Location = util.IST
	}
	return &service{
		cfg:      cfg,
		weather:  weather,
		notifier: notifier,
		dispatch: dispatch,
		metrics:  recorder,
		logger:   logger.With("component", "alerts.service"),
		now:      time.Now,
	}
}

type evaluator struct {
	id        string
	alertType AlertType
	title     string
	decide    func(ctx context.Context, location string) (Decision, error)
}

// GetAlerts always returns one notification per evaluator, pesticide first.
// Evaluator failures degrade into low priority notifications carrying the error text.
func (s *service) GetAlerts(ctx context.Context, req Request) []Notification {
	location := strings.TrimSpace(req.Location)
	phone := strings.TrimSpace(req.PhoneNumber)

	evaluators := []evaluator{
		{id: "1", alertType: TypePesticide, title: "Pesticide Spray Alert", decide: s.pesticideDecision},
		{id: "2", alertType: TypeIrrigation, title: "Irrigation Alert", decide: s.irrigationDecision},
	}

	out := make([]Notification, 0, len(evaluators))
	for _, ev := range evaluators {
		out = append(out, s.evaluate(ctx, ev, location, req.SendSMS, phone))
	}
	return out
}

func (s *service) evaluate(ctx context.Context, ev evaluator, location string, sendSMS bool, phone string) Notification {
	notification := Notification{
		ID:        ev.id,
		Type:      ev.alertType,
		Priority:  PriorityLow,
		Title:     ev.title,
		Timestamp: s.now().In(s.cfg.Location).Format(timestampLayout),
	}

	decision, err := ev.decide(ctx, location)
	if err != nil {
		s.logger.Warn("alert evaluation degraded", "type", ev.alertType, "location", location, "error", err)
		s.metrics.AlertEvaluated(string(ev.alertType), "degraded")
		notification.Message = fmt.Sprintf("Weather API error: %v", err)
		return notification
	}
	if decision.noData {
		s.logger.Warn("weather provider returned no days", "type", ev.alertType, "location", location)
	}

	notification.Message = decision.Message
	notification.ActionRequired = decision.Triggered
	if !decision.Triggered {
		s.metrics.AlertEvaluated(string(ev.alertType), "clear")
		return notification
	}

	notification.Priority = PriorityHigh
	s.metrics.AlertEvaluated(string(ev.alertType), "triggered")
	if sendSMS && phone != "" {
		notification.SMSSent = s.sendSMS(ctx, ev, phone, decision.Message)
	}
	return notification
}

func (s *service) pesticideDecision(ctx context.Context, location string) (Decision, error) {
	today := util.StartOfDay(s.now().In(s.cfg.Location))
	days, err := s.weather.FetchForecast(ctx, ForecastQuery{
		Location: location,
		Start:    today,
		End:      today.AddDate(0, 0, s.cfg.PesticideWindowDays),
	})
	if err != nil {
		return Decision{}, err
	}
	return EvaluatePesticideSpray(days, s.cfg.RainThresholdMM), nil
}

func (s *service) irrigationDecision(ctx context.Context, location string) (Decision, error) {
	days, err := s.weather.FetchForecast(ctx, ForecastQuery{Location: location})
	if err != nil {
		return Decision{}, err
	}
	return EvaluateIrrigationNeed(days, location), nil
}

func (s *service) sendSMS(ctx context.Context, ev evaluator, phone, body string) bool {
	delivered := s.notifier.Send(ctx, phone, body)
	s.metrics.SMSSent(string(ev.alertType), delivered)
	s.logger.Info("alert sms dispatched", "type", ev.alertType, "to", maskPhone(phone), "delivered", delivered)

	record := DispatchRecord{
		ID:          uuid.New(),
		AlertID:     ev.id,
		AlertType:   ev.alertType,
		PhoneNumber: phone,
		Message:     body,
		Delivered:   delivered,
		CreatedAt:   util.NowUTC(),
	}
	if err := s.dispatch.Append(ctx, record); err != nil {
		s.logger.Warn("sms dispatch log append failed", "type", ev.alertType, "error", err)
	}
	return delivered
}

func maskPhone(phone string) string {
	runes := []rune(phone)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
