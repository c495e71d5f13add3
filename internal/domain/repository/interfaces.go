package repository

import (
	"context"
	"time"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
)

// MatchCache stores parsed subscriber-matcher success bodies so repeated
// signals for the same instrument skip the matcher round trip. Lookups and
// writes absorb backend failures: a broken cache degrades to a miss, it
// never fails a dispatch.
type MatchCache interface {
	Get(ctx context.Context, sig models.Signal) (map[string]any, bool)
	Set(ctx context.Context, sig models.Signal, body map[string]any, ttl time.Duration)
}

// AuditTrail records settled dispatches for offline inspection. Recording is
// best effort; errors are surfaced to the caller for logging and dropped.
type AuditTrail interface {
	Record(ctx context.Context, rec *models.DispatchRecord) error
	Close() error
}

// Metrics abstracts the relay's operational counters.
type Metrics interface {
	RecordSignalReceived(result string)
	RecordDispatch(service, outcome string)
	RecordDispatchLatency(service string, seconds float64)
	RecordError(kind string)
}
