package dispatchlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/alerts"
)

const schema = `
CREATE TABLE IF NOT EXISTS sms_dispatch_log (
	id UUID PRIMARY KEY,
	alert_id TEXT NOT NULL,
	alert_type TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	message TEXT NOT NULL,
	delivered BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresLog persists SMS dispatch records in Postgres.
type PostgresLog struct {
	pool *pgxpool.Pool
}

// NewPostgresLog creates a new log backed by pool.
func NewPostgresLog(pool *pgxpool.Pool) *PostgresLog {
	return &PostgresLog{pool: pool}
}

// EnsureSchema creates the dispatch table when missing.
func (l *PostgresLog) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create sms_dispatch_log: %w", err)
	}
	return nil
}

// Append inserts one dispatch row.
func (l *PostgresLog) Append(ctx context.Context, record alerts.DispatchRecord) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO sms_dispatch_log (id, alert_id, alert_type, phone_number, message, delivered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, record.ID.String(), record.AlertID, string(record.AlertType), record.PhoneNumber, record.Message, record.Delivered, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sms dispatch: %w", err)
	}
	return nil
}
