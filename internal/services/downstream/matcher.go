package downstream

import (
	"context"
	"time"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
	"github.com/jomarcello/Signal-Processor/pkg/config"
)

// MatcherService calls the subscriber matcher ahead of the fan-out. Its
// success body carries the subscriber records used for chat_ids enrichment.
type MatcherService struct {
	base *ServiceClient
}

func NewMatcherService(svc config.ServiceConfig, probeTimeout time.Duration) *MatcherService {
	return &MatcherService{base: NewServiceClient(NameSubscriberMatcher, svc, pathMatch, probeTimeout)}
}

func (m *MatcherService) Name() string { return m.base.Name() }

// Match posts the signal to the matcher's match path.
func (m *MatcherService) Match(ctx context.Context, sig models.Signal) models.CallOutcome {
	return m.base.Post(ctx, sig)
}

func (m *MatcherService) Probe(ctx context.Context) string { return m.base.Probe(ctx) }

var (
	_ domsvc.SubscriberMatcher = (*MatcherService)(nil)
	_ domsvc.HealthProber      = (*MatcherService)(nil)
)
