package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	"github.com/jomarcello/Signal-Processor/internal/service/ratelimit"
	"github.com/jomarcello/Signal-Processor/internal/usecase"
	xhttp "github.com/jomarcello/Signal-Processor/pkg/http"
	applogger "github.com/jomarcello/Signal-Processor/pkg/logger"
)

// SignalHandler exposes the relay's inbound surface: signal intake and the
// composite health report.
type SignalHandler struct {
	dispatcher *usecase.SignalDispatcher
	health     *usecase.HealthReporter
	rl         *ratelimit.Limiter
	rps        float64
	burst      float64
	l          *applogger.Logger
}

// NewSignalHandler wires the dispatcher and health reporter to the HTTP
// surface. A nil limiter disables rate limiting.
func NewSignalHandler(
	dispatcher *usecase.SignalDispatcher,
	health *usecase.HealthReporter,
	rl *ratelimit.Limiter,
	rps, burst float64,
	l *applogger.Logger,
) *SignalHandler {
	return &SignalHandler{
		dispatcher: dispatcher,
		health:     health,
		rl:         rl,
		rps:        rps,
		burst:      burst,
		l:          l,
	}
}

var _ xhttp.Handler = (*SignalHandler)(nil)

func (h *SignalHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/signal", h.ProcessSignal)
	e.GET("/health", h.Health)
}

// signalResponse is the /signal success envelope.
type signalResponse struct {
	Status  string                `json:"status"`
	Results models.DispatchResult `json:"results"`
}

// ProcessSignal receives one trading signal and relays it to every
// configured downstream service. Downstream failures are reported inside
// results, not as HTTP errors.
func (h *SignalHandler) ProcessSignal(c echo.Context) error {
	if h.rl != nil && !h.rl.Allow(c.RealIP()+":signal", h.burst, h.rps) {
		if h.l != nil {
			h.l.Warn("signal rate limited", applogger.String("remote", c.RealIP()))
		}
		return xhttp.TooManyRequestsError("rate limit exceeded")
	}

	var sig models.Signal
	if err := c.Bind(&sig); err != nil {
		return xhttp.BadRequestError("invalid JSON body")
	}

	results, err := h.dispatcher.Dispatch(c.Request().Context(), sig)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			return xhttp.BadRequestError(verr.Error())
		case errors.Is(err, models.ErrAllDownstreamFailed):
			return xhttp.BadGatewayError(err.Error())
		default:
			if h.l != nil {
				h.l.Error("signal dispatch error", applogger.Error(err))
			}
			return xhttp.InternalError("signal dispatch failed")
		}
	}

	return c.JSON(http.StatusOK, signalResponse{Status: "success", Results: results})
}

// Health reports the composite dependency state. The endpoint itself always
// answers 200; degradation lives in the body.
func (h *SignalHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.Report(c.Request().Context()))
}
