package downstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	"github.com/jomarcello/Signal-Processor/pkg/config"
	xhttp "github.com/jomarcello/Signal-Processor/pkg/http"
)

// StatusMissingURL is reported for dependencies without a configured address.
const StatusMissingURL = "missing_url"

// ServiceClient is the shared outbound caller for one downstream service.
// Every call settles as a CallOutcome value: remote rejections and transport
// faults are dispatch results, not Go errors, so one slow or dead dependency
// can never abort the rest of a fan-out.
type ServiceClient struct {
	endpoint     Endpoint
	client       *xhttp.Client
	probeTimeout time.Duration
}

// NewServiceClient builds the caller for a configured service. The HTTP
// client enforces the per-service timeout; certificate verification stays on
// unless the service block opts out.
func NewServiceClient(name string, svc config.ServiceConfig, path string, probeTimeout time.Duration) *ServiceClient {
	return &ServiceClient{
		endpoint: NewEndpoint(name, svc.URL, path),
		client: xhttp.NewClient(
			xhttp.WithTimeout(svc.Timeout),
			xhttp.WithInsecureTLS(svc.InsecureSkipVerify),
		),
		probeTimeout: probeTimeout,
	}
}

// Name returns the logical service name.
func (s *ServiceClient) Name() string { return s.endpoint.Name }

// Endpoint exposes the resolved endpoint, mainly for logging.
func (s *ServiceClient) Endpoint() Endpoint { return s.endpoint }

// Post sends a JSON payload to the service's call path and classifies the
// response. Success requires status 200 and a JSON object body; any other
// status becomes a remote error carrying the raw body text; connection,
// timeout, TLS, and malformed-body failures become transport errors.
func (s *ServiceClient) Post(ctx context.Context, payload any) models.CallOutcome {
	resp, err := s.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    s.endpoint.URL(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	})
	if err != nil {
		return models.TransportErrorOutcome(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.TransportErrorOutcome(fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return models.RemoteErrorOutcome(resp.StatusCode, string(body))
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.TransportErrorOutcome(fmt.Sprintf("malformed response: %v", err))
	}
	return models.SuccessOutcome(parsed)
}

// Probe checks the dependency's health endpoint within the probe timeout and
// reports the health state string.
func (s *ServiceClient) Probe(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	resp, err := s.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    s.endpoint.HealthURL(),
	})
	if err != nil {
		return "error_" + err.Error()
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusOK {
		return models.HealthHealthy
	}
	return fmt.Sprintf("unhealthy_%d", resp.StatusCode)
}
