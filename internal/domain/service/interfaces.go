package service

import (
	"context"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
)

// SubscriberMatcher resolves which subscribers a signal should reach. A
// matcher failure is an outcome value, not an error: dispatch continues
// unenriched.
type SubscriberMatcher interface {
	Name() string
	Match(ctx context.Context, sig models.Signal) models.CallOutcome
}

// SignalForwarder delivers a signal to one downstream service. Forward never
// returns a Go error; remote and transport failures settle as outcomes.
type SignalForwarder interface {
	Name() string
	Forward(ctx context.Context, sig models.Signal) models.CallOutcome
}

// HealthProber checks one dependency and reports its health state string:
// "healthy", "unhealthy_<code>", "missing_url", or "error_<message>".
type HealthProber interface {
	Name() string
	Probe(ctx context.Context) string
}
