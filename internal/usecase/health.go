package usecase

import (
	"context"
	"sync"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
)

// HealthReporter probes every known dependency and folds the states into a
// composite report.
type HealthReporter struct {
	probers []domsvc.HealthProber
}

func NewHealthReporter(probers []domsvc.HealthProber) *HealthReporter {
	return &HealthReporter{probers: probers}
}

// Report probes all dependencies concurrently. The composite status is
// healthy only when every dependency reports healthy, degraded otherwise.
// Reporting never fails; probe faults arrive as per-dependency states.
func (h *HealthReporter) Report(ctx context.Context) *models.HealthReport {
	type item struct {
		name  string
		state string
	}
	ch := make(chan item, len(h.probers))
	var wg sync.WaitGroup

	for _, p := range h.probers {
		wg.Add(1)
		go func(p domsvc.HealthProber) {
			defer wg.Done()
			ch <- item{p.Name(), p.Probe(ctx)}
		}(p)
	}
	go func() { wg.Wait(); close(ch) }()

	deps := make(map[string]string, len(h.probers))
	status := models.HealthHealthy
	for it := range ch {
		deps[it.name] = it.state
		if it.state != models.HealthHealthy {
			status = models.HealthDegraded
		}
	}

	return &models.HealthReport{
		Status:       status,
		Service:      models.ServiceName,
		Dependencies: deps,
	}
}
