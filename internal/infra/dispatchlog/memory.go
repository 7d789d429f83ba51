package dispatchlog

import (
	"context"
	"sync"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/alerts"
)

// MemoryLog keeps SMS dispatch records in process memory for dev and tests.
type MemoryLog struct {
	mu      sync.RWMutex
	records []alerts.DispatchRecord
}

// NewMemoryLog constructs an empty in-memory log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append stores the record.
func (l *MemoryLog) Append(_ context.Context, record alerts.DispatchRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

// Records returns a copy of the stored records in append order.
func (l *MemoryLog) Records() []alerts.DispatchRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]alerts.DispatchRecord, len(l.records))
	copy(out, l.records)
	return out
}
