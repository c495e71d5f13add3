package downstream

import "strings"

// Logical service names. These are the keys of every dispatch result and
// health report, fixed regardless of call timing or configuration source.
const (
	NameSubscriberMatcher = "subscriber_matcher"
	NameAISignal          = "ai_signal"
	NameNewsAI            = "news_ai"
	NameTelegram          = "telegram"
)

// Call paths are part of each service's contract, not configuration.
const (
	pathMatch   = "match"
	pathAnalyze = "analyze"
	pathSend    = "send_signal"
	pathHealth  = "health"
)

// Endpoint is a resolved downstream address: a logical name, a normalized
// base URL, and the fixed path the service is called on.
type Endpoint struct {
	Name string
	Base string
	Path string
}

// NewEndpoint normalizes rawBase and binds it to a call path.
func NewEndpoint(name, rawBase, path string) Endpoint {
	return Endpoint{Name: name, Base: ResolveBase(rawBase), Path: path}
}

// ResolveBase normalizes a configured address. Addresses without an
// http:// or https:// prefix default to https; trailing slashes are
// dropped. Resolution happens once at startup, never per request.
func ResolveBase(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return strings.TrimRight(base, "/")
}

// JoinURL joins a base URL and a path with exactly one separator, whatever
// slashes either side carries.
func JoinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

// URL is the full dispatch target.
func (e Endpoint) URL() string { return JoinURL(e.Base, e.Path) }

// HealthURL is the health-probe target.
func (e Endpoint) HealthURL() string { return JoinURL(e.Base, pathHealth) }

// Configured reports whether an address was provided.
func (e Endpoint) Configured() bool { return e.Base != "" }
