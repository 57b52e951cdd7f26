package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/handlers"
	"staycal/internal/app/handlers/availability"
	"staycal/internal/app/middleware"
	appoutbox "staycal/internal/app/outbox"
	"staycal/internal/app/policies"
	"staycal/internal/app/services/auth"
	domainauth "staycal/internal/domain/auth"
	"staycal/internal/infra/broker/kafka"
	"staycal/internal/infra/broker/rabbitmq"
	"staycal/internal/infra/config"
	mongostore "staycal/internal/infra/db/mongo"
	ginserver "staycal/internal/infra/http/gin"
	"staycal/internal/infra/ics"
	"staycal/internal/infra/obs"
	infraoutbox "staycal/internal/infra/outbox"
	"staycal/internal/infra/schedule"
	"staycal/internal/infra/security"
	"staycal/internal/infra/storage/blob"
	"staycal/internal/infra/storage/docstore"
	"staycal/internal/infra/storage/memory"
	redisstore "staycal/internal/infra/storage/redis"
	"staycal/internal/infra/storage/s3"
)

const idempotencyTTL = 24 * time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(os.Getenv("APP_ENV")).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	go func() {
		if err := app.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox relay stopped", "error", err)
		}
	}()
	app.scheduler.Start(ctx)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, app.health, app.handlers)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "docs", cfg.DocBackend, "blob", cfg.BlobBackend, "broker", cfg.EventBroker)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers  ginserver.Handlers
	health    obs.Health
	relay     *infraoutbox.Worker
	scheduler *schedule.Runner
	closers   []func(context.Context) error
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("shutdown cleanup failed", "error", err)
		}
	}
}

// storeBox is an outbox that the relay can also drain.
type storeBox interface {
	appoutbox.Outbox
	infraoutbox.Store
}

func build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{health: obs.Health{Checks: map[string]obs.Check{}}}

	var docs docstore.Store = memory.NewDocumentStore()
	var box storeBox = memory.NewOutbox()
	var idemStore middleware.IdempotencyStore = memory.NewIdempotencyStore(idempotencyTTL)
	var kv blob.KV = memory.NewKV()
	var sessions domainauth.SessionStore = memory.NewSessionStore()

	if cfg.UsesMongo() {
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		app.health.Checks["mongo"] = client.Ping
		if docs, err = mongostore.NewDocumentStore(ctx, client.DB); err != nil {
			return nil, err
		}
		if box, err = mongostore.NewOutboxStore(ctx, client.DB); err != nil {
			return nil, err
		}
		if idemStore, err = mongostore.NewIdempotencyStore(ctx, client.DB, idempotencyTTL); err != nil {
			return nil, err
		}
		logger.Info("mongo connected", "db", cfg.MongoDB)
	}

	if cfg.UsesRedis() {
		client, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func(context.Context) error { return client.Close() })
		app.health.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		kv = redisstore.NewKV(client)
		sessions = redisstore.NewSessionStore(client)
		logger.Info("redis connected", "addr", cfg.RedisAddr)
	}

	users := docstore.NewUserRepository(docs)
	sources := datasource.Selector{
		Local:  blob.NewSource(kv, blob.WithPrefix(cfg.BlobPrefix), blob.WithLogger(logger)),
		Remote: docstore.NewSource(docs, logger),
	}

	authSvc := &auth.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	if _, err := authSvc.EnsureMaster(ctx, cfg.MasterEmail, cfg.MasterPassword); err != nil {
		return nil, err
	}

	var images policies.ImageStore
	if cfg.S3Endpoint != "" {
		store, err := s3.NewImageStore(s3.Options{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			UseSSL:         cfg.S3UseSSL,
		}, logger)
		if err != nil {
			return nil, err
		}
		images = store
	}

	commands := bus.NewCommands()
	queries := bus.NewQueries()
	if err := handlers.Register(commands, queries, handlers.Deps{
		Sources:  sources,
		Users:    users,
		Outbox:   box,
		Images:   images,
		Calendar: ics.Encoder{},
		Currency: cfg.DefaultCurrency,
		Logger:   logger,
	}); err != nil {
		return nil, err
	}

	validator := middleware.NewStructValidator()
	commandBus := middleware.Commands(commands,
		middleware.CommandLogging(logger),
		middleware.Validation(validator),
		middleware.Idempotency(idemStore),
		middleware.OutboxFlush(box),
	)
	queryBus := middleware.Queries(queries,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
	)

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	if closePublisher != nil {
		app.closers = append(app.closers, func(context.Context) error { return closePublisher.Close() })
	}
	app.relay = &infraoutbox.Worker{
		Store:       box,
		Publisher:   publisher,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Source:      "staycal",
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}

	app.scheduler = schedule.NewRunner(commandBus, logger)
	if err := app.scheduler.Add(ctx, schedule.Job{
		Name:    "conflict-scan",
		Spec:    cfg.ConflictScanCron,
		Command: availability.ScanConflictsCommand{},
		Timeout: time.Minute,
	}); err != nil {
		return nil, err
	}

	app.handlers = ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authSvc, Logger: logger},
		Properties:     ginserver.PropertyHandler{Commands: commandBus, Queries: queryBus, Logger: logger},
		Reservations:   ginserver.ReservationHandler{Commands: commandBus, Queries: queryBus, Logger: logger},
		Availability:   ginserver.AvailabilityHandler{Queries: queryBus, Logger: logger},
		SubUsers:       ginserver.SubUserHandler{Commands: commandBus, Queries: queryBus, Logger: logger},
		Users:          ginserver.UserHandler{Commands: commandBus, Queries: queryBus, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authSvc, Logger: logger}.Handle,
	}
	return app, nil
}

func newPublisher(cfg config.Config, logger *slog.Logger) (infraoutbox.Publisher, io.Closer, error) {
	switch cfg.EventBroker {
	case config.BrokerKafka:
		p, err := kafka.NewProducer(cfg.KafkaBrokers, "staycal")
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case config.BrokerRabbitMQ:
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, "staycal.events")
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		return infraoutbox.LogPublisher{Logger: logger}, nil, nil
	}
}
