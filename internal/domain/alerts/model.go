package alerts

import (
	"time"

	"github.com/google/uuid"
)

// AlertType identifies which rule produced a notification.
type AlertType string

const (
	TypePesticide  AlertType = "pesticide"
	TypeIrrigation AlertType = "irrigation"
)

// Priority is derived 1:1 from Decision.Triggered.
type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityLow  Priority = "low"
)

// Request captures the payload accepted by the alerts endpoint.
type Request struct {
	Location    string `json:"location"`
	SendSMS     bool   `json:"sms"`
	PhoneNumber string `json:"phone_number"`
}

// Notification is one alert card returned to the farmer.
type Notification struct {
	ID             string    `json:"id"`
	Type           AlertType `json:"type"`
	Priority       Priority  `json:"priority"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Timestamp      string    `json:"timestamp"`
	ActionRequired bool      `json:"actionRequired"`
	IsRead         bool      `json:"isRead"`
	SMSSent        bool      `json:"smsSent,omitempty"`
}

// ForecastDay is a single day of precipitation from the weather provider.
type ForecastDay struct {
	Date            time.Time
	PrecipitationMM float64
}

// ForecastQuery scopes a weather fetch. Zero Start and End ask for the provider's default window.
type ForecastQuery struct {
	Location string
	Start    time.Time
	End      time.Time
}

// Decision is the output of a rule evaluator.
type Decision struct {
	Triggered bool
	Message   string

	noData bool
}

// DispatchRecord is one SMS attempt appended to the dispatch log.
type DispatchRecord struct {
	ID          uuid.UUID
	AlertID     string
	AlertType   AlertType
	PhoneNumber string
	Message     string
	Delivered   bool
	CreatedAt   time.Time
}

// Config wires rule thresholds for the alerts domain.
type Config struct {
	RainThresholdMM     float64
	PesticideWindowDays int
	Location            *time.Location
}
