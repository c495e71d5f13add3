package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domrepo "github.com/jomarcello/Signal-Processor/internal/domain/repository"
	domsvc "github.com/jomarcello/Signal-Processor/internal/domain/service"
	applogger "github.com/jomarcello/Signal-Processor/pkg/logger"
)

const auditTimeout = 5 * time.Second

// SignalDispatcher orchestrates one inbound signal end to end: required
// field validation, the synchronous subscriber-matching step, the concurrent
// fan-out to every configured forwarder, and aggregation of the settled
// outcomes. Matcher and cache are optional; a nil matcher skips the
// enrichment step, a nil cache disables match reuse.
type SignalDispatcher struct {
	matcher    domsvc.SubscriberMatcher
	forwarders []domsvc.SignalForwarder
	cache      domrepo.MatchCache
	audit      domrepo.AuditTrail
	metrics    domrepo.Metrics
	l          *applogger.Logger
	validate   *validator.Validate

	requiredFields []string
	requireSuccess bool
	cacheTTL       time.Duration
}

func NewSignalDispatcher(
	matcher domsvc.SubscriberMatcher,
	forwarders []domsvc.SignalForwarder,
	cache domrepo.MatchCache,
	audit domrepo.AuditTrail,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	requiredFields []string,
	requireSuccess bool,
	cacheTTL time.Duration,
) *SignalDispatcher {
	return &SignalDispatcher{
		matcher:        matcher,
		forwarders:     forwarders,
		cache:          cache,
		audit:          audit,
		metrics:        metrics,
		l:              l,
		validate:       validator.New(),
		requiredFields: requiredFields,
		requireSuccess: requireSuccess,
		cacheTTL:       cacheTTL,
	}
}

// Dispatch validates the signal, runs subscriber matching, fans the signal
// out to every forwarder, and returns the aggregated result. Per-call
// failures never escalate: the returned error is non-nil only for a
// validation failure or, when the success policy is on, for a dispatch where
// not a single fan-out call succeeded.
func (d *SignalDispatcher) Dispatch(ctx context.Context, sig models.Signal) (models.DispatchResult, error) {
	start := time.Now()
	dispatchID := uuid.NewString()

	if missing := d.missingFields(sig); len(missing) > 0 {
		d.metrics.RecordSignalReceived("rejected")
		return nil, models.NewValidationError(missing...)
	}
	d.metrics.RecordSignalReceived("accepted")

	if d.l != nil {
		d.l.Info("signal received",
			applogger.String("dispatch_id", dispatchID),
			applogger.String("symbol", sig.Symbol()),
			applogger.String("action", sig.Action()),
			applogger.Int("targets", len(d.forwarders)),
		)
	}

	outcomes := make(map[string]models.CallOutcome, len(d.forwarders)+1)

	payload := sig
	matched := 0
	if d.matcher != nil {
		var outcome models.CallOutcome
		outcome, payload, matched = d.matchSubscribers(ctx, dispatchID, sig)
		outcomes[d.matcher.Name()] = outcome
	}

	// payload is read-only from here on; the goroutines share it without
	// copying.
	type item struct {
		name    string
		outcome models.CallOutcome
	}
	ch := make(chan item, len(d.forwarders))
	var wg sync.WaitGroup

	for _, f := range d.forwarders {
		wg.Add(1)
		go func(f domsvc.SignalForwarder) {
			defer wg.Done()
			callStart := time.Now()
			out := f.Forward(ctx, payload)
			d.metrics.RecordDispatch(f.Name(), string(out.Kind()))
			d.metrics.RecordDispatchLatency(f.Name(), time.Since(callStart).Seconds())
			ch <- item{f.Name(), out}
		}(f)
	}
	go func() { wg.Wait(); close(ch) }()

	anyOK := false
	for it := range ch {
		outcomes[it.name] = it.outcome
		if it.outcome.OK() {
			anyOK = true
		}
	}

	took := time.Since(start)
	d.recordAudit(&models.DispatchRecord{
		DispatchID:  dispatchID,
		Symbol:      sig.Symbol(),
		Action:      sig.Action(),
		ReceivedAt:  start,
		DurationMS:  took.Milliseconds(),
		Results:     outcomeKinds(outcomes),
		Subscribers: matched,
	})

	result := aggregateOutcomes(outcomes)

	if d.requireSuccess && len(d.forwarders) > 0 && !anyOK {
		d.metrics.RecordError("all_downstream_failed")
		if d.l != nil {
			d.l.Error("all downstream dispatches failed",
				applogger.String("dispatch_id", dispatchID),
				applogger.String("symbol", sig.Symbol()),
			)
		}
		return nil, models.ErrAllDownstreamFailed
	}

	if d.l != nil {
		d.l.Info("signal dispatched",
			applogger.String("dispatch_id", dispatchID),
			applogger.String("symbol", sig.Symbol()),
			applogger.Int("matched_subscribers", matched),
			applogger.Duration("duration_ms", took),
		)
	}
	return result, nil
}

// missingFields checks the configured required fields. A field is missing
// when the key is absent or its value is empty by validator semantics.
func (d *SignalDispatcher) missingFields(sig models.Signal) []string {
	var missing []string
	for _, field := range d.requiredFields {
		v, ok := sig.Field(field)
		if !ok {
			missing = append(missing, field)
			continue
		}
		if err := d.validate.Var(v, "required"); err != nil {
			missing = append(missing, field)
		}
	}
	return missing
}

// matchSubscribers runs the synchronous pre-step. It returns the matcher's
// outcome for the result slot, the payload for the fan-out (enriched with
// chat_ids when matching succeeded), and the matched subscriber count. Any
// failure leaves the payload untouched.
func (d *SignalDispatcher) matchSubscribers(ctx context.Context, dispatchID string, sig models.Signal) (models.CallOutcome, models.Signal, int) {
	if d.cache != nil {
		if body, ok := d.cache.Get(ctx, sig); ok {
			d.metrics.RecordDispatch(d.matcher.Name(), "cache_hit")
			payload, matched := enrichFromMatch(sig, body)
			return models.SuccessOutcome(body), payload, matched
		}
	}

	callStart := time.Now()
	outcome := d.matcher.Match(ctx, sig)
	d.metrics.RecordDispatch(d.matcher.Name(), string(outcome.Kind()))
	d.metrics.RecordDispatchLatency(d.matcher.Name(), time.Since(callStart).Seconds())

	if !outcome.OK() {
		if d.l != nil {
			d.l.Warn("subscriber matching failed, continuing without enrichment",
				applogger.String("dispatch_id", dispatchID),
				applogger.String("symbol", sig.Symbol()),
				applogger.String("reason", outcome.ErrorText()),
			)
		}
		return outcome, sig, 0
	}

	if d.cache != nil {
		d.cache.Set(ctx, sig, outcome.Body(), d.cacheTTL)
	}
	payload, matched := enrichFromMatch(sig, outcome.Body())
	return outcome, payload, matched
}

// enrichFromMatch merges the matched chat ids into a copy of the signal. A
// success body without recognizable subscribers enriches nothing.
func enrichFromMatch(sig models.Signal, body map[string]any) (models.Signal, int) {
	subs := models.SubscribersFromMatch(body)
	if len(subs) == 0 {
		return sig, 0
	}
	return sig.WithChatIDs(models.ChatIDs(subs)), len(subs)
}

// recordAudit publishes the dispatch record off the request path. Audit
// failures are logged and dropped.
func (d *SignalDispatcher) recordAudit(rec *models.DispatchRecord) {
	if d.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := d.audit.Record(ctx, rec); err != nil {
			d.metrics.RecordError("audit")
			if d.l != nil {
				d.l.Warn("audit record failed",
					applogger.String("dispatch_id", rec.DispatchID),
					applogger.Error(err),
				)
			}
		}
	}()
}
