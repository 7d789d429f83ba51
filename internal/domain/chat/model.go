package chat

import "time"

// Request is the inbound chat payload.
type Request struct {
	Message string `json:"message"`
}

// Response wraps the formatted reply.
type Response struct {
	Reply string `json:"reply"`
}

// Config controls the chat prompt and provider retries.
type Config struct {
	Model       string
	Temperature float32
	Language    string
	MaxAttempts int
	Backoff     time.Duration
}
