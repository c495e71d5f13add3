package di

import (
	"fmt"
	"net"
	"strconv"

	domrepo "github.com/jomarcello/Signal-Processor/internal/domain/repository"
	"github.com/jomarcello/Signal-Processor/internal/handler/api"
	internalrepo "github.com/jomarcello/Signal-Processor/internal/repository"
	"github.com/jomarcello/Signal-Processor/internal/service/ratelimit"
	"github.com/jomarcello/Signal-Processor/internal/services/downstream"
	"github.com/jomarcello/Signal-Processor/internal/usecase"
	"github.com/jomarcello/Signal-Processor/pkg/cache"
	"github.com/jomarcello/Signal-Processor/pkg/config"
	xhttp "github.com/jomarcello/Signal-Processor/pkg/http"
	pkgkafka "github.com/jomarcello/Signal-Processor/pkg/kafka"
	applogger "github.com/jomarcello/Signal-Processor/pkg/logger"
	"github.com/jomarcello/Signal-Processor/pkg/metrics"
	"github.com/jomarcello/Signal-Processor/pkg/server"
)

const cachePrefix = "sigproc"

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideKafkaProducer creates the shared Kafka producer. Nil when no
// brokers are configured; the audit trail and log pipeline stay off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAuditTrail creates the Kafka dispatch audit trail. Nil disables
// auditing.
func ProvideAuditTrail(producer *pkgkafka.Producer, cfg *config.Config) domrepo.AuditTrail {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaAuditTrail(producer, cfg.Kafka.Topic)
}

// ProvideCacheService builds the match-cache backend: layered memory over
// Redis when Redis is enabled, in-process memory otherwise. Nil when the
// match cache TTL is unset.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if cfg.Dispatch.MatchCacheTTL <= 0 {
		return nil, nil
	}
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cachePrefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideMatchCache adapts the cache backend to the dispatcher.
func ProvideMatchCache(c cache.Service, l *applogger.Logger) domrepo.MatchCache {
	if c == nil {
		return nil
	}
	return internalrepo.NewCacheMatchStore(c, l)
}

// ProvideRegistry resolves the configured downstream services.
func ProvideRegistry(cfg *config.Config) *downstream.Registry {
	return downstream.NewRegistry(cfg)
}

// ProvideDispatcher creates the signal dispatch use case.
func ProvideDispatcher(
	reg *downstream.Registry,
	mc domrepo.MatchCache,
	audit domrepo.AuditTrail,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalDispatcher {
	return usecase.NewSignalDispatcher(
		reg.Matcher,
		reg.Forwarders,
		mc,
		audit,
		m,
		l,
		cfg.Dispatch.RequiredFields,
		cfg.Dispatch.RequireDownstreamSuccess,
		cfg.Dispatch.MatchCacheTTL,
	)
}

// ProvideHealthReporter creates the health report use case.
func ProvideHealthReporter(reg *downstream.Registry) *usecase.HealthReporter {
	return usecase.NewHealthReporter(reg.Probers)
}

// ProvideRateLimiter enables inbound rate limiting when an RPS is set.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Server.RateLimitRPS <= 0 {
		return nil
	}
	return ratelimit.New()
}

// ProvideSignalHandler creates the HTTP surface.
func ProvideSignalHandler(
	d *usecase.SignalDispatcher,
	hr *usecase.HealthReporter,
	rl *ratelimit.Limiter,
	l *applogger.Logger,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewSignalHandler(d, hr, rl, cfg.Server.RateLimitRPS, float64(cfg.Server.RateLimitBurst), l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	producer *pkgkafka.Producer,
	audit domrepo.AuditTrail,
) *server.App {
	return server.New(cfg, l, handler, producer, audit)
}
