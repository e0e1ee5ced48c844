package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/Winmix713/match-insight-dash-13/internal/blob/s3"
	"github.com/Winmix713/match-insight-dash-13/internal/cache/redis"
	"github.com/Winmix713/match-insight-dash-13/internal/config"
	"github.com/Winmix713/match-insight-dash-13/internal/domain"
	"github.com/Winmix713/match-insight-dash-13/internal/notify"
	"github.com/Winmix713/match-insight-dash-13/internal/predictor"
	"github.com/Winmix713/match-insight-dash-13/internal/server/handler"
	"github.com/Winmix713/match-insight-dash-13/internal/service"
	"github.com/Winmix713/match-insight-dash-13/internal/store/postgres"
)

// Dependencies bundles everything the modes need. Optional collaborators
// (Redis, S3, notifications) are nil interfaces when disabled.
type Dependencies struct {
	// Stores
	Matches      domain.MatchStore
	Teams        domain.TeamStore
	Models       domain.ModelStore
	Predictions  domain.PredictionStore
	TrainingLogs domain.TrainingLogStore
	Audit        domain.AuditStore

	// Redis-backed, optional
	Locks      domain.LockManager
	Limiter    domain.RateLimiter
	Bus        domain.EventBus
	ModelCache domain.ModelCache

	// S3-backed, optional
	Reports *s3blob.ReportArchive

	Notifier service.Notifier

	// Services
	ModelService *service.ModelService
	Generation   *service.GenerationService
	Evaluator    *service.Evaluator

	// Health probes keyed by dependency name.
	Health map[string]handler.Pinger
}

// pingFunc adapts a health function to handler.Pinger.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Wire builds the concrete dependencies from cfg. The returned cleanup
// releases them in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{Health: map[string]handler.Pinger{}}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.PoolMaxConns,
		MinConns: cfg.Database.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)
	deps.Health["postgres"] = pgClient

	if cfg.Database.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	matchStore := postgres.NewMatchStore(pool)
	deps.Matches = matchStore
	deps.Teams = postgres.NewTeamStore(pool)
	deps.Models = postgres.NewModelStore(pool)
	deps.Predictions = postgres.NewPredictionStore(pool)
	deps.TrainingLogs = postgres.NewTrainingLogStore(pool)
	deps.Audit = postgres.NewAuditStore(pool)

	// --- Redis ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		deps.Health["redis"] = redisClient

		deps.Locks = redis.NewLockManager(redisClient)
		deps.Limiter = redis.NewRateLimiter(redisClient)
		deps.Bus = redis.NewEventBus(redisClient)
		deps.ModelCache = redis.NewModelCache(redisClient)
	}

	// --- S3 report archive ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Health["s3"] = pingFunc(s3Client.Health)
		deps.Reports = s3blob.NewReportArchive(s3blob.NewWriter(s3Client), s3blob.NewReader(s3Client))
	}

	// --- Notifications ---
	var senders []notify.Sender
	breaker := notify.DefaultBreakerSettings()
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.WithBreaker(
			notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID), breaker, logger))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.WithBreaker(
			notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL), breaker, logger))
	}
	if n := notify.NewNotifier(senders, cfg.Notify.Events, logger); n.Enabled() {
		deps.Notifier = n
	}

	// --- Services ---
	deps.ModelService = service.NewModelService(deps.Models, deps.ModelCache, logger).
		WithTrainingLogs(deps.TrainingLogs)

	band := predictor.NewBandEstimator(cfg.Predictor.Seed)
	registry := predictor.NewRegistry(band)
	registry.Register(predictor.AlgorithmBand, band)
	registry.Register(predictor.AlgorithmElo, predictor.NewEloEstimator(matchStore, cfg.Predictor.HistoryLimit))

	pred := predictor.New(predictor.Params{
		GoalScale:       cfg.Predictor.GoalScale,
		DrawThreshold:   cfg.Predictor.DrawThreshold,
		BaseConfidence:  cfg.Predictor.BaseConfidence,
		ConfidenceSlope: cfg.Predictor.ConfidenceSlope,
		MinConfidence:   cfg.Predictor.MinConfidence,
		MaxConfidence:   cfg.Predictor.MaxConfidence,
	})

	deps.Generation = service.NewGenerationService(
		deps.Matches, deps.Teams, deps.Predictions,
		deps.ModelService, pred, registry,
		deps.Audit, deps.Bus, logger,
	)

	var archiver service.ReportArchiver
	if deps.Reports != nil && cfg.Evaluation.ArchiveReports {
		archiver = deps.Reports
	}
	aggregator := service.NewAccuracyAggregator(deps.Predictions, deps.Models, deps.ModelService, logger)
	deps.Evaluator = service.NewEvaluator(
		deps.Matches, deps.Predictions, aggregator,
		deps.Locks, cfg.Evaluation.LockTTL.Duration,
		archiver, deps.Audit, deps.Notifier, deps.Bus, logger,
	)

	logger.InfoContext(ctx, "dependencies wired",
		slog.Bool("redis", cfg.Redis.Enabled),
		slog.Bool("s3", cfg.S3.Enabled),
		slog.Int("notify_senders", len(senders)),
		slog.Any("estimators", registry.List()),
	)
	return deps, cleanup, nil
}
