package di

import (
	"context"
	"fmt"
	"time"

	"StockPilot/internal/domain/repository"
	domsvc "StockPilot/internal/domain/service"
	"StockPilot/internal/handler/api"
	internalrepo "StockPilot/internal/repository"
	"StockPilot/internal/service/news"
	"StockPilot/internal/service/ratelimit"
	"StockPilot/internal/service/yahoo"
	"StockPilot/internal/services/classifier"
	"StockPilot/internal/services/dataset"
	"StockPilot/internal/services/features"
	"StockPilot/internal/usecase"
	"StockPilot/pkg/cache"
	pkgch "StockPilot/pkg/clickhouse"
	"StockPilot/pkg/config"
	xhttp "StockPilot/pkg/http"
	pkgkafka "StockPilot/pkg/kafka"
	applogger "StockPilot/pkg/logger"
	"StockPilot/pkg/metrics"
	"StockPilot/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Log.Format
	if format == "" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client, nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the ClickHouse bar store, nil when the client is disabled.
func ProvideBarStore(chClient *pkgch.Client, logger *applogger.Logger) repository.BarStore {
	if chClient == nil {
		return nil
	}
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(logger)
	return store
}

// ProvideKafkaProducer creates a Kafka producer, nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideDecisionPublisher creates the Kafka decision publisher, nil when disabled.
func ProvideDecisionPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	topic := cfg.Kafka.Topic
	if topic == "" {
		topic = "stockpilot.decisions"
	}
	return internalrepo.NewKafkaPublisher(producer, topic)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the response cache: layered over Redis when enabled,
// in-memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix("stockpilot"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideYahooClient creates the Yahoo Finance market-data client.
func ProvideYahooClient(cfg *config.Config, logger *applogger.Logger) *yahoo.Client {
	c := yahoo.New(cfg.Yahoo.RetryAttempts, cfg.Yahoo.RetryBackoff)
	c.SetLogger(logger)
	return c
}

// ProvideBarProvider exposes the Yahoo client as the daily-bar source.
func ProvideBarProvider(c *yahoo.Client) repository.BarProvider { return c }

// ProvideQuoteProvider exposes the Yahoo client as the quote source.
func ProvideQuoteProvider(c *yahoo.Client) repository.QuoteProvider { return c }

// ProvideNewsProvider creates the NewsAPI client.
func ProvideNewsProvider(cfg *config.Config) repository.NewsProvider {
	return news.New(cfg.News.APIKey, cfg.News.Timeout)
}

// ProvideCleaner creates the series cleaner from the configured floor date.
func ProvideCleaner(cfg *config.Config) (*dataset.Cleaner, error) {
	floor, err := cfg.FloorDate()
	if err != nil {
		return nil, err
	}
	return dataset.NewCleaner(floor), nil
}

// ProvideGenerator creates the feature generator from the configured horizons.
func ProvideGenerator(cfg *config.Config) *features.Generator {
	return features.NewGenerator(cfg.Dataset.Horizons)
}

// ProvideClassifierFactory builds the random-forest factory.
func ProvideClassifierFactory(cfg *config.Config) domsvc.ClassifierFactory {
	return classifier.Factory(classifier.Config{
		Trees:           cfg.Classifier.Trees,
		MinSamplesSplit: cfg.Classifier.MinSamplesSplit,
		MaxDepth:        cfg.Classifier.MaxDepth,
		Seed:            cfg.Classifier.Seed,
	})
}

// ProvideBarSource creates the cached daily-bar source.
func ProvideBarSource(
	provider repository.BarProvider,
	store repository.BarStore,
	cfg *config.Config,
	logger *applogger.Logger,
) (*usecase.BarSource, error) {
	from, err := cfg.HistoryFromDate()
	if err != nil {
		return nil, err
	}
	src := usecase.NewBarSource(provider, store, from, cfg.ClickHouse.BarMaxAge, cfg.ClickHouse.MinBars)
	src.SetLogger(logger)
	return src, nil
}

// ProvideAdvisor creates the backtest advisor use case.
func ProvideAdvisor(
	bars *usecase.BarSource,
	cleaner *dataset.Cleaner,
	gen *features.Generator,
	factory domsvc.ClassifierFactory,
	m repository.Metrics,
	pub repository.Publisher,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.Advisor {
	a := usecase.NewAdvisor(bars, cleaner, gen, factory, m, usecase.AdvisorConfig{
		StartIndex: cfg.Backtest.StartIndex,
		StepSize:   cfg.Backtest.StepSize,
		Threshold:  cfg.Backtest.Threshold,
		Workers:    cfg.Backtest.Workers,
	})
	if pub != nil {
		a.SetPublisher(pub)
	}
	a.SetLogger(logger)
	return a
}

// ProvideChart creates the chart series use case.
func ProvideChart(bars *usecase.BarSource, cleaner *dataset.Cleaner) *usecase.Chart {
	return usecase.NewChart(bars, cleaner)
}

// ProvideTodayInfo creates the quote snapshot use case.
func ProvideTodayInfo(quotes repository.QuoteProvider) *usecase.TodayInfo {
	return usecase.NewTodayInfo(quotes)
}

// ProvideNews creates the news use case.
func ProvideNews(provider repository.NewsProvider) *usecase.News {
	return usecase.NewNews(provider)
}

// ProvideLimiter creates the per-symbol rate limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideHandler creates the API handler tree.
func ProvideHandler(
	logger *applogger.Logger,
	advisor *usecase.Advisor,
	chart *usecase.Chart,
	info *usecase.TodayInfo,
	newsUC *usecase.News,
	quotes repository.QuoteProvider,
	cacheSvc cache.Service,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewStocksEchoHandler(logger, advisor, chart, info, newsUC, quotes, cacheSvc, limiter, api.HandlerConfig{
		AdviseTTL:    cfg.Backtest.CacheTTL,
		ChartTTL:     cfg.Cache.ChartTTL,
		QuoteTTL:     cfg.Cache.QuoteTTL,
		NewsTTL:      cfg.News.CacheTTL,
		LiveInterval: cfg.Live.Interval,
	})
}

// ProvideApp creates the application server and attaches the log collector
// when Kafka shipping is configured.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	store repository.BarStore,
	pub repository.Publisher,
	chClient *pkgch.Client,
) *server.App {
	if pub != nil && cfg.Kafka.LogTopic != "" {
		if lp, ok := pub.(applogger.Publisher); ok {
			logger.AddCollector(&applogger.CollectionConfig{
				TimeInterval:   30 * time.Second,
				CountThreshold: 100,
				Topic:          cfg.Kafka.LogTopic,
				Publisher:      lp,
			})
		}
	}

	app := server.New(cfg, logger, handler)
	app.SetBarStore(store)
	app.SetPublisher(pub)
	app.SetClickHouse(chClient)
	return app
}
