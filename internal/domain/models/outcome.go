package models

import "fmt"

// OutcomeKind labels the three ways an outbound call can settle.
type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "ok"
	OutcomeRemoteError    OutcomeKind = "remote_error"
	OutcomeTransportError OutcomeKind = "transport_error"
)

// CallOutcome is the settled result of one downstream call. Remote and
// transport failures are values, never Go errors: a failed call is a normal
// dispatch result. Outcomes are constructed by the outbound caller and
// immutable afterwards.
type CallOutcome struct {
	kind    OutcomeKind
	body    map[string]any
	status  int
	errText string
}

// SuccessOutcome wraps a 200 response whose body parsed as a JSON object.
func SuccessOutcome(body map[string]any) CallOutcome {
	return CallOutcome{kind: OutcomeSuccess, body: body}
}

// RemoteErrorOutcome wraps a non-200 response, preserving the raw body text.
func RemoteErrorOutcome(status int, body string) CallOutcome {
	return CallOutcome{kind: OutcomeRemoteError, status: status, errText: body}
}

// TransportErrorOutcome wraps a connection, timeout, TLS, or
// malformed-response failure.
func TransportErrorOutcome(msg string) CallOutcome {
	return CallOutcome{kind: OutcomeTransportError, errText: msg}
}

func (o CallOutcome) OK() bool          { return o.kind == OutcomeSuccess }
func (o CallOutcome) Kind() OutcomeKind { return o.kind }

// Body returns the parsed success payload. Nil for failed outcomes.
func (o CallOutcome) Body() map[string]any { return o.body }

// StatusCode returns the remote status for remote errors, zero otherwise.
func (o CallOutcome) StatusCode() int { return o.status }

// ErrorText renders the failure for the aggregated response. Remote errors
// keep the status code and raw body, transport errors keep the exception
// message.
func (o CallOutcome) ErrorText() string {
	switch o.kind {
	case OutcomeRemoteError:
		return fmt.Sprintf("unexpected status %d: %s", o.status, o.errText)
	case OutcomeTransportError:
		return o.errText
	}
	return ""
}

// DispatchResult maps logical service names to either the parsed success
// body or an {"error": ...} entry. Keys are deterministic for a given
// service configuration regardless of call timing.
type DispatchResult map[string]any

// ResultEntry converts one outcome to its response representation.
func ResultEntry(o CallOutcome) any {
	if o.OK() {
		return o.Body()
	}
	return map[string]string{"error": o.ErrorText()}
}
