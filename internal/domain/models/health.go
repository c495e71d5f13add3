package models

import "time"

// ServiceName is the identifier the relay reports about itself.
const ServiceName = "signal-processor"

// Composite health states. Per-dependency states are free-form strings:
// "healthy", "unhealthy_<code>", "missing_url", or "error_<message>".
const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
)

// HealthReport is the /health response body.
type HealthReport struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies"`
}

// DispatchRecord is the audit event published after a dispatch settles. It
// carries outcome metadata only; the signal document itself is never
// persisted or published.
type DispatchRecord struct {
	DispatchID  string            `json:"dispatch_id"`
	Symbol      string            `json:"symbol"`
	Action      string            `json:"action"`
	ReceivedAt  time.Time         `json:"received_at"`
	DurationMS  int64             `json:"duration_ms"`
	Results     map[string]string `json:"results"`
	Subscribers int               `json:"matched_subscribers"`
}
