package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
	"github.com/jomarcello/Signal-Processor/internal/service/ratelimit"
	"github.com/jomarcello/Signal-Processor/internal/usecase"
	xhttp "github.com/jomarcello/Signal-Processor/pkg/http"
)

type fakeForwarder struct {
	name    string
	outcome models.CallOutcome
}

func (f fakeForwarder) Name() string { return f.name }

func (f fakeForwarder) Forward(context.Context, models.Signal) models.CallOutcome {
	return f.outcome
}

type fakeProber struct {
	name  string
	state string
}

func (p fakeProber) Name() string                 { return p.name }
func (p fakeProber) Probe(context.Context) string { return p.state }

type noopMetrics struct{}

func (noopMetrics) RecordSignalReceived(string)           {}
func (noopMetrics) RecordDispatch(string, string)         {}
func (noopMetrics) RecordDispatchLatency(string, float64) {}
func (noopMetrics) RecordError(string)                    {}

var requiredFields = []string{"symbol", "action"}

func newDispatcher(requireSuccess bool, forwarders ...domsvc.SignalForwarder) *usecase.SignalDispatcher {
	return usecase.NewSignalDispatcher(nil, forwarders, nil, nil, noopMetrics{}, nil, requiredFields, requireSuccess, 0)
}

func newTestServer(d *usecase.SignalDispatcher, hr *usecase.HealthReporter, rl *ratelimit.Limiter, rps, burst float64) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = xhttp.ErrorHandler(nil)
	NewSignalHandler(d, hr, rl, rps, burst, nil).RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProcessSignalSuccess(t *testing.T) {
	d := newDispatcher(false,
		fakeForwarder{name: "ai_signal", outcome: models.SuccessOutcome(map[string]any{"status": "queued"})},
		fakeForwarder{name: "telegram", outcome: models.SuccessOutcome(map[string]any{"status": "sent"})},
	)
	e := newTestServer(d, nil, nil, 0, 0)

	rec := doJSON(e, http.MethodPost, "/signal", `{"symbol":"EURUSD","action":"buy","price":1.0845}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status  string                    `json:"status"`
		Results map[string]map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "queued", resp.Results["ai_signal"]["status"])
	assert.Equal(t, "sent", resp.Results["telegram"]["status"])
}

func TestProcessSignalMissingFieldDetail(t *testing.T) {
	d := newDispatcher(false,
		fakeForwarder{name: "telegram", outcome: models.SuccessOutcome(map[string]any{"status": "sent"})},
	)
	e := newTestServer(d, nil, nil, 0, 0)

	rec := doJSON(e, http.MethodPost, "/signal", `{"symbol":"EURUSD"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var detail map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "missing required fields: action", detail["detail"])
}

func TestProcessSignalInvalidJSON(t *testing.T) {
	e := newTestServer(newDispatcher(false), nil, nil, 0, 0)

	rec := doJSON(e, http.MethodPost, "/signal", `{"symbol":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var detail map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "invalid JSON body", detail["detail"])
}

func TestProcessSignalAllFailedDefaultPolicy(t *testing.T) {
	d := newDispatcher(false,
		fakeForwarder{name: "ai_signal", outcome: models.TransportErrorOutcome("connection refused")},
		fakeForwarder{name: "telegram", outcome: models.RemoteErrorOutcome(503, "busy")},
	)
	e := newTestServer(d, nil, nil, 0, 0)

	rec := doJSON(e, http.MethodPost, "/signal", `{"symbol":"EURUSD","action":"sell"}`)

	require.Equal(t, http.StatusOK, rec.Code, "all-failed dispatches still succeed at the orchestration layer")
	var resp struct {
		Status  string                    `json:"status"`
		Results map[string]map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "connection refused", resp.Results["ai_signal"]["error"])
	assert.Equal(t, "unexpected status 503: busy", resp.Results["telegram"]["error"])
}

func TestProcessSignalAllFailedRequireSuccess(t *testing.T) {
	d := newDispatcher(true,
		fakeForwarder{name: "telegram", outcome: models.TransportErrorOutcome("timeout")},
	)
	e := newTestServer(d, nil, nil, 0, 0)

	rec := doJSON(e, http.MethodPost, "/signal", `{"symbol":"EURUSD","action":"sell"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var detail map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "all downstream dispatches failed", detail["detail"])
}

func TestProcessSignalRateLimited(t *testing.T) {
	d := newDispatcher(false,
		fakeForwarder{name: "telegram", outcome: models.SuccessOutcome(map[string]any{"status": "sent"})},
	)
	e := newTestServer(d, nil, ratelimit.New(), 0, 1)

	first := doJSON(e, http.MethodPost, "/signal", `{"symbol":"EURUSD","action":"buy"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(e, http.MethodPost, "/signal", `{"symbol":"EURUSD","action":"buy"}`)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	var detail map[string]string
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &detail))
	assert.Equal(t, "rate limit exceeded", detail["detail"])
}

func TestHealthAlwaysOK(t *testing.T) {
	hr := usecase.NewHealthReporter([]domsvc.HealthProber{
		fakeProber{name: "ai_signal", state: "healthy"},
		fakeProber{name: "news_ai", state: "missing_url"},
		fakeProber{name: "telegram", state: "unhealthy_503"},
	})
	e := newTestServer(newDispatcher(false), hr, nil, 0, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var rep models.HealthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "degraded", rep.Status)
	assert.Equal(t, "signal-processor", rep.Service)
	assert.Equal(t, map[string]string{
		"ai_signal": "healthy",
		"news_ai":   "missing_url",
		"telegram":  "unhealthy_503",
	}, rep.Dependencies)
}
