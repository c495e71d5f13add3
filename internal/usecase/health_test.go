package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
)

type stubProber struct {
	name  string
	state string
}

func (p stubProber) Name() string                 { return p.name }
func (p stubProber) Probe(context.Context) string { return p.state }

func TestHealthReportAllHealthy(t *testing.T) {
	h := NewHealthReporter([]domsvc.HealthProber{
		stubProber{name: "ai_signal", state: models.HealthHealthy},
		stubProber{name: "telegram", state: models.HealthHealthy},
	})

	rep := h.Report(context.Background())

	assert.Equal(t, models.HealthHealthy, rep.Status)
	assert.Equal(t, models.ServiceName, rep.Service)
	assert.Equal(t, map[string]string{
		"ai_signal": "healthy",
		"telegram":  "healthy",
	}, rep.Dependencies)
}

func TestHealthReportDegraded(t *testing.T) {
	h := NewHealthReporter([]domsvc.HealthProber{
		stubProber{name: "ai_signal", state: models.HealthHealthy},
		stubProber{name: "news_ai", state: "missing_url"},
		stubProber{name: "telegram", state: "unhealthy_503"},
	})

	rep := h.Report(context.Background())

	assert.Equal(t, models.HealthDegraded, rep.Status)
	assert.Equal(t, "missing_url", rep.Dependencies["news_ai"])
	assert.Equal(t, "unhealthy_503", rep.Dependencies["telegram"])
}
