package downstream

import (
	"context"
	"time"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
	"github.com/jomarcello/Signal-Processor/pkg/config"
)

// NotificationService forwards enriched signals to the Telegram delivery
// service on its send_signal path.
type NotificationService struct {
	base *ServiceClient
}

func NewNotificationService(svc config.ServiceConfig, probeTimeout time.Duration) *NotificationService {
	return &NotificationService{base: NewServiceClient(NameTelegram, svc, pathSend, probeTimeout)}
}

func (n *NotificationService) Name() string { return n.base.Name() }

func (n *NotificationService) Forward(ctx context.Context, sig models.Signal) models.CallOutcome {
	return n.base.Post(ctx, sig)
}

func (n *NotificationService) Probe(ctx context.Context) string { return n.base.Probe(ctx) }

var (
	_ domsvc.SignalForwarder = (*NotificationService)(nil)
	_ domsvc.HealthProber    = (*NotificationService)(nil)
)
