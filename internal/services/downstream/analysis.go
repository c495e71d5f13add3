package downstream

import (
	"context"
	"time"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
	"github.com/jomarcello/Signal-Processor/pkg/config"
)

// AnalysisService forwards signals to one analysis engine on its analyze
// path. The relay runs two of these, ai_signal and news_ai, distinguished
// only by name and address.
type AnalysisService struct {
	base *ServiceClient
}

func NewAnalysisService(name string, svc config.ServiceConfig, probeTimeout time.Duration) *AnalysisService {
	return &AnalysisService{base: NewServiceClient(name, svc, pathAnalyze, probeTimeout)}
}

func (a *AnalysisService) Name() string { return a.base.Name() }

func (a *AnalysisService) Forward(ctx context.Context, sig models.Signal) models.CallOutcome {
	return a.base.Post(ctx, sig)
}

func (a *AnalysisService) Probe(ctx context.Context) string { return a.base.Probe(ctx) }

var (
	_ domsvc.SignalForwarder = (*AnalysisService)(nil)
	_ domsvc.HealthProber    = (*AnalysisService)(nil)
)
