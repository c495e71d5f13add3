package downstream

import (
	"context"

	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
	"github.com/jomarcello/Signal-Processor/pkg/config"
)

// UnconfiguredService stands in for a known dependency without an address.
// It never joins the fan-out; probes report missing_url so /health keeps a
// complete dependency map.
type UnconfiguredService struct {
	ServiceName string
}

func (u UnconfiguredService) Name() string                 { return u.ServiceName }
func (u UnconfiguredService) Probe(context.Context) string { return StatusMissingURL }

var _ domsvc.HealthProber = UnconfiguredService{}

// Registry holds the constructed downstream clients: the optional matcher,
// the fan-out forwarders, and one prober per known dependency whether or not
// it is configured. Order is fixed so result keys and health maps stay
// deterministic.
type Registry struct {
	Matcher    domsvc.SubscriberMatcher // nil when the matcher has no address
	Forwarders []domsvc.SignalForwarder
	Probers    []domsvc.HealthProber
}

// NewRegistry builds clients for every configured service. Endpoint
// resolution happens here, once; a required service missing its address has
// already failed config validation before this runs.
func NewRegistry(cfg *config.Config) *Registry {
	probeTimeout := cfg.Dispatch.HealthProbeTimeout
	r := &Registry{}

	if svc := cfg.Services.SubscriberMatcher; svc.URL != "" {
		m := NewMatcherService(svc, probeTimeout)
		r.Matcher = m
		r.Probers = append(r.Probers, m)
	} else {
		r.Probers = append(r.Probers, UnconfiguredService{NameSubscriberMatcher})
	}

	analyzers := []struct {
		name string
		svc  config.ServiceConfig
	}{
		{NameAISignal, cfg.Services.AISignal},
		{NameNewsAI, cfg.Services.NewsAI},
	}
	for _, a := range analyzers {
		if a.svc.URL == "" {
			r.Probers = append(r.Probers, UnconfiguredService{a.name})
			continue
		}
		s := NewAnalysisService(a.name, a.svc, probeTimeout)
		r.Forwarders = append(r.Forwarders, s)
		r.Probers = append(r.Probers, s)
	}

	if svc := cfg.Services.Telegram; svc.URL != "" {
		n := NewNotificationService(svc, probeTimeout)
		r.Forwarders = append(r.Forwarders, n)
		r.Probers = append(r.Probers, n)
	} else {
		r.Probers = append(r.Probers, UnconfiguredService{NameTelegram})
	}

	return r
}
