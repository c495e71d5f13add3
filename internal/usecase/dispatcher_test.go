package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
)

type stubMatcher struct {
	outcome models.CallOutcome

	mu    sync.Mutex
	calls int
}

func (m *stubMatcher) Name() string { return "subscriber_matcher" }

func (m *stubMatcher) Match(_ context.Context, _ models.Signal) models.CallOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.outcome
}

func (m *stubMatcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type stubForwarder struct {
	name    string
	outcome models.CallOutcome

	mu       sync.Mutex
	calls    int
	lastSeen models.Signal
}

func (f *stubForwarder) Name() string { return f.name }

func (f *stubForwarder) Forward(_ context.Context, sig models.Signal) models.CallOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastSeen = sig
	return f.outcome
}

func (f *stubForwarder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *stubForwarder) seen() models.Signal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSeen
}

type stubMetrics struct {
	mu       sync.Mutex
	received map[string]int
	dispatch map[string]int
	errors   map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{
		received: map[string]int{},
		dispatch: map[string]int{},
		errors:   map[string]int{},
	}
}

func (m *stubMetrics) RecordSignalReceived(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received[result]++
}

func (m *stubMetrics) RecordDispatch(service, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatch[service+"/"+outcome]++
}

func (m *stubMetrics) RecordDispatchLatency(string, float64) {}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

type stubCache struct {
	mu   sync.Mutex
	body map[string]any
	sets int
}

func (c *stubCache) Get(_ context.Context, _ models.Signal) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.body == nil {
		return nil, false
	}
	return c.body, true
}

func (c *stubCache) Set(_ context.Context, _ models.Signal, body map[string]any, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = body
	c.sets++
}

func (c *stubCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

type stubAudit struct {
	recs chan *models.DispatchRecord
}

func (a *stubAudit) Record(_ context.Context, rec *models.DispatchRecord) error {
	a.recs <- rec
	return nil
}

func (a *stubAudit) Close() error { return nil }

func testSignal() models.Signal {
	return models.Signal{"symbol": "EURUSD", "action": "buy", "price": 1.0845}
}

func successBody(status string) map[string]any {
	return map[string]any{"status": status}
}

var defaultRequired = []string{"symbol", "action"}

func TestDispatchResultKeyCoverage(t *testing.T) {
	matchBody := map[string]any{"matches": []any{map[string]any{"chat_id": float64(42)}}}
	matcher := &stubMatcher{outcome: models.SuccessOutcome(matchBody)}
	ai := &stubForwarder{name: "ai_signal", outcome: models.SuccessOutcome(successBody("queued"))}
	news := &stubForwarder{name: "news_ai", outcome: models.SuccessOutcome(successBody("queued"))}
	tg := &stubForwarder{name: "telegram", outcome: models.SuccessOutcome(successBody("sent"))}
	d := NewSignalDispatcher(matcher, []domsvc.SignalForwarder{ai, news, tg}, nil, nil, newStubMetrics(), nil, defaultRequired, false, 0)

	res, err := d.Dispatch(context.Background(), testSignal())

	require.NoError(t, err)
	require.Len(t, res, 4)
	for _, name := range []string{"subscriber_matcher", "ai_signal", "news_ai", "telegram"} {
		assert.Contains(t, res, name)
	}
	assert.Equal(t, successBody("sent"), res["telegram"])
	assert.Equal(t, matchBody, res["subscriber_matcher"])
}

func TestDispatchMatcherFailureDoesNotBlockFanout(t *testing.T) {
	matcher := &stubMatcher{outcome: models.TransportErrorOutcome("connection refused")}
	ai := &stubForwarder{name: "ai_signal", outcome: models.SuccessOutcome(successBody("queued"))}
	tg := &stubForwarder{name: "telegram", outcome: models.SuccessOutcome(successBody("sent"))}
	d := NewSignalDispatcher(matcher, []domsvc.SignalForwarder{ai, tg}, nil, nil, newStubMetrics(), nil, defaultRequired, false, 0)

	res, err := d.Dispatch(context.Background(), testSignal())

	require.NoError(t, err)
	assert.Equal(t, 1, ai.callCount())
	assert.Equal(t, 1, tg.callCount())
	assert.Equal(t, map[string]string{"error": "connection refused"}, res["subscriber_matcher"])

	_, enriched := tg.seen().Field(models.FieldChatIDs)
	assert.False(t, enriched, "failed matching must not enrich the payload")
}

func TestDispatchEnrichment(t *testing.T) {
	matchBody := map[string]any{"matches": []any{
		map[string]any{"chat_id": float64(101)},
		map[string]any{"chat_id": "202"},
	}}
	matcher := &stubMatcher{outcome: models.SuccessOutcome(matchBody)}
	tg := &stubForwarder{name: "telegram", outcome: models.SuccessOutcome(successBody("sent"))}
	sig := testSignal()
	d := NewSignalDispatcher(matcher, []domsvc.SignalForwarder{tg}, nil, nil, newStubMetrics(), nil, defaultRequired, false, 0)

	_, err := d.Dispatch(context.Background(), sig)

	require.NoError(t, err)
	ids, ok := tg.seen().Field(models.FieldChatIDs)
	require.True(t, ok)
	assert.Equal(t, []any{float64(101), "202"}, ids)

	_, ok = sig.Field(models.FieldChatIDs)
	assert.False(t, ok, "inbound signal must stay unmodified")
}

func TestDispatchAllFailedDefaultPolicy(t *testing.T) {
	ai := &stubForwarder{name: "ai_signal", outcome: models.RemoteErrorOutcome(500, "boom")}
	tg := &stubForwarder{name: "telegram", outcome: models.TransportErrorOutcome("timeout")}
	d := NewSignalDispatcher(nil, []domsvc.SignalForwarder{ai, tg}, nil, nil, newStubMetrics(), nil, defaultRequired, false, 0)

	res, err := d.Dispatch(context.Background(), testSignal())

	// With the success policy off, failures stay inside the results.
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"error": "unexpected status 500: boom"}, res["ai_signal"])
	assert.Equal(t, map[string]string{"error": "timeout"}, res["telegram"])
}

func TestDispatchAllFailedRequireSuccess(t *testing.T) {
	ai := &stubForwarder{name: "ai_signal", outcome: models.RemoteErrorOutcome(500, "boom")}
	tg := &stubForwarder{name: "telegram", outcome: models.TransportErrorOutcome("timeout")}
	d := NewSignalDispatcher(nil, []domsvc.SignalForwarder{ai, tg}, nil, nil, newStubMetrics(), nil, defaultRequired, true, 0)

	_, err := d.Dispatch(context.Background(), testSignal())
	require.ErrorIs(t, err, models.ErrAllDownstreamFailed)
}

func TestDispatchPartialSuccessRequireSuccess(t *testing.T) {
	ai := &stubForwarder{name: "ai_signal", outcome: models.TransportErrorOutcome("timeout")}
	tg := &stubForwarder{name: "telegram", outcome: models.SuccessOutcome(successBody("sent"))}
	d := NewSignalDispatcher(nil, []domsvc.SignalForwarder{ai, tg}, nil, nil, newStubMetrics(), nil, defaultRequired, true, 0)

	res, err := d.Dispatch(context.Background(), testSignal())

	require.NoError(t, err)
	assert.Equal(t, successBody("sent"), res["telegram"])
}

func TestDispatchValidationBlocksCalls(t *testing.T) {
	matcher := &stubMatcher{outcome: models.SuccessOutcome(map[string]any{})}
	tg := &stubForwarder{name: "telegram", outcome: models.SuccessOutcome(successBody("sent"))}
	metrics := newStubMetrics()
	d := NewSignalDispatcher(matcher, []domsvc.SignalForwarder{tg}, nil, nil, metrics, nil, defaultRequired, false, 0)

	_, err := d.Dispatch(context.Background(), models.Signal{"symbol": "EURUSD"})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"action"}, verr.Fields)
	assert.Equal(t, 0, matcher.callCount())
	assert.Equal(t, 0, tg.callCount())
	assert.Equal(t, 1, metrics.received["rejected"])
}

func TestDispatchEmptyValueCountsAsMissing(t *testing.T) {
	d := NewSignalDispatcher(nil, nil, nil, nil, newStubMetrics(), nil, defaultRequired, false, 0)

	_, err := d.Dispatch(context.Background(), models.Signal{"symbol": "", "action": "buy"})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"symbol"}, verr.Fields)
}

func TestDispatchMatchCache(t *testing.T) {
	matchBody := map[string]any{"matches": []any{map[string]any{"chat_id": float64(7)}}}
	matcher := &stubMatcher{outcome: models.SuccessOutcome(matchBody)}
	tg := &stubForwarder{name: "telegram", outcome: models.SuccessOutcome(successBody("sent"))}
	cache := &stubCache{}
	d := NewSignalDispatcher(matcher, []domsvc.SignalForwarder{tg}, cache, nil, newStubMetrics(), nil, defaultRequired, false, time.Minute)

	_, err := d.Dispatch(context.Background(), testSignal())
	require.NoError(t, err)
	require.Equal(t, 1, matcher.callCount())
	assert.Equal(t, 1, cache.setCount())

	_, err = d.Dispatch(context.Background(), testSignal())
	require.NoError(t, err)
	assert.Equal(t, 1, matcher.callCount(), "second dispatch must reuse the cached match")

	ids, ok := tg.seen().Field(models.FieldChatIDs)
	require.True(t, ok)
	assert.Equal(t, []any{float64(7)}, ids)
}

func TestDispatchAuditRecord(t *testing.T) {
	audit := &stubAudit{recs: make(chan *models.DispatchRecord, 1)}
	tg := &stubForwarder{name: "telegram", outcome: models.SuccessOutcome(successBody("sent"))}
	d := NewSignalDispatcher(nil, []domsvc.SignalForwarder{tg}, nil, audit, newStubMetrics(), nil, defaultRequired, false, 0)

	_, err := d.Dispatch(context.Background(), testSignal())
	require.NoError(t, err)

	select {
	case rec := <-audit.recs:
		assert.NotEmpty(t, rec.DispatchID)
		assert.Equal(t, "EURUSD", rec.Symbol)
		assert.Equal(t, "buy", rec.Action)
		assert.Equal(t, map[string]string{"telegram": "ok"}, rec.Results)
		assert.Zero(t, rec.Subscribers)
	case <-time.After(time.Second):
		t.Fatal("audit record not published")
	}
}

func TestDispatchIdempotentResultKeys(t *testing.T) {
	matcher := &stubMatcher{outcome: models.SuccessOutcome(map[string]any{})}
	ai := &stubForwarder{name: "ai_signal", outcome: models.SuccessOutcome(successBody("queued"))}
	tg := &stubForwarder{name: "telegram", outcome: models.RemoteErrorOutcome(503, "busy")}
	d := NewSignalDispatcher(matcher, []domsvc.SignalForwarder{ai, tg}, nil, nil, newStubMetrics(), nil, defaultRequired, false, 0)

	first, err := d.Dispatch(context.Background(), testSignal())
	require.NoError(t, err)
	second, err := d.Dispatch(context.Background(), testSignal())
	require.NoError(t, err)

	keys := func(r models.DispatchResult) []string {
		out := make([]string, 0, len(r))
		for k := range r {
			out = append(out, k)
		}
		return out
	}
	assert.ElementsMatch(t, keys(first), keys(second))
}
