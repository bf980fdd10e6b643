package di

import (
	"context"
	"fmt"
	"time"

	"AstroChart/internal/domain/repository"
	"AstroChart/internal/domain/service"
	"AstroChart/internal/handler/api"
	mid "AstroChart/internal/middleware"
	internalrepo "AstroChart/internal/repository"
	icache "AstroChart/internal/service/cache"
	"AstroChart/internal/services/astro"
	"AstroChart/internal/services/ephemeris"
	"AstroChart/internal/usecase"
	pkgch "AstroChart/pkg/clickhouse"
	"AstroChart/pkg/config"
	xhttp "AstroChart/pkg/http"
	pkgkafka "AstroChart/pkg/kafka"
	applogger "AstroChart/pkg/logger"
	"AstroChart/pkg/metrics"
	"AstroChart/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideTables creates the astrological reference tables.
func ProvideTables(cfg *config.Config) astro.Tables {
	t := astro.DefaultTables()
	if cfg.Ephemeris.HouseSystem != "" {
		t.HouseSystem = cfg.Ephemeris.HouseSystem[0]
	}
	return t
}

// ProvideOracle creates the configured ephemeris backend.
func ProvideOracle(cfg *config.Config, l *applogger.Logger) (service.Oracle, error) {
	switch cfg.Ephemeris.Backend {
	case "remote":
		remote, err := ephemeris.NewRemote(ephemeris.RemoteConfig{
			BaseURL:  cfg.Ephemeris.URL,
			Timeout:  cfg.Ephemeris.Timeout,
			DataPath: cfg.Ephemeris.DataPath,
		})
		if err != nil {
			return nil, fmt.Errorf("remote ephemeris: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := remote.Configure(ctx); err != nil {
			return nil, fmt.Errorf("configure ephemeris sidecar: %w", err)
		}
		return remote, nil
	default:
		return ephemeris.NewBuiltin(l, ephemeris.WithDataPath(cfg.Ephemeris.DataPath)), nil
	}
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when analytics are
// enabled, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Analytics.Enabled {
		return nil, nil
	}

	ch := cfg.Analytics.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + ch.Database,
		"CREATE TABLE IF NOT EXISTS " + ch.Database + ".compare_results (" +
			"ts DateTime, total_score Float64, romantic Float64, emotional Float64, " +
			"mental Float64, sexual Float64, stability Float64, aspect_count UInt32" +
			") ENGINE=MergeTree ORDER BY ts",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when events are enabled,
// nil otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}

	k := cfg.Events.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithBatchSize(k.Producer.BatchSize),
		pkgkafka.WithBatchBytes(k.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(k.Producer.Linger),
		pkgkafka.WithTimeouts(k.Producer.WriteTimeout, k.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(k.Producer.MaxAttempts),
		pkgkafka.WithAsync(k.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideEventPublisher creates the Kafka-backed event publisher, nil when
// events are disabled.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	topic := cfg.Events.Kafka.Topic
	if topic == "" {
		topic = "astro.chart_events"
	}
	return internalrepo.NewKafkaPublisher(producer, topic)
}

// ProvideResultStore creates the ClickHouse comparison sink, nil when
// analytics are disabled.
func ProvideResultStore(chClient *pkgch.Client, cfg *config.Config) repository.ResultStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseResultStore(chClient.DB(), cfg.Analytics.ClickHouse.Database+".compare_results")
}

// ProvideEventPipeline creates the buffered event pipeline. The router
// tolerates nil sinks, so the pipeline always runs and simply discards
// events when both Kafka and ClickHouse are off.
func ProvideEventPipeline(
	pub repository.Publisher,
	results repository.ResultStore,
	m repository.Metrics,
) *mid.EventPipeline {
	router := usecase.NewEventRouter(pub, results, m)
	return mid.NewEventPipeline(router, m, mid.WithBufferSize(1000))
}

// ProvideChartService creates the chart use case layer.
func ProvideChartService(
	oracle service.Oracle,
	tables astro.Tables,
	pipeline *mid.EventPipeline,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ChartService {
	builder := usecase.NewChartBuilder(oracle, tables)
	scorer := usecase.NewCompatibilityScorer(tables)
	return usecase.NewChartService(builder, scorer, pipeline, m, oracle.Backend(), l)
}

// ProvideHandler creates the Echo handler with cache and rate limit wiring.
func ProvideHandler(
	cfg *config.Config,
	l *applogger.Logger,
	svc *usecase.ChartService,
) (xhttp.Handler, error) {
	h := api.NewChartsHandler(l, svc)

	if cfg.RateLimit.Capacity > 0 {
		h.SetRateLimit(float64(cfg.RateLimit.Capacity), cfg.RateLimit.RefillPerSec)
	}

	switch cfg.Cache.Backend {
	case "redis":
		rc, err := icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		h.SetCache(rc, cfg.Cache.TTL)
	case "memory":
		h.SetCache(icache.NewTTLCache(), cfg.Cache.TTL)
	}

	return h, nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	pipeline *mid.EventPipeline,
	pub repository.Publisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, handler, pipeline, pub, chClient)
}
