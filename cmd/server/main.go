// Command server runs the certificate issuance and verification service.
//
// Storage selection follows configuration: DATABASE_URL picks PostgreSQL,
// FISMAPP_SQLITE_PATH picks the embedded SQLite ledger, and with neither set
// everything runs in memory. Redis, when configured, backs the distributed
// rate limiter; Kafka, when configured, receives the audit stream.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fismapp/internal/auth"
	"fismapp/internal/certificate"
	certhandler "fismapp/internal/certificate/handler"
	certmetrics "fismapp/internal/certificate/metrics"
	"fismapp/internal/course"
	"fismapp/internal/platform/config"
	"fismapp/internal/platform/httpserver"
	"fismapp/internal/platform/logger"
	"fismapp/internal/platform/metrics"
	"fismapp/internal/platform/middleware"
	"fismapp/internal/platform/postgres"
	platformredis "fismapp/internal/platform/redis"
	"fismapp/internal/ratelimit"
	"fismapp/internal/recipient"
	recipienthandler "fismapp/internal/recipient/handler"
	"fismapp/internal/render"
	"fismapp/internal/template"
	templatehandler "fismapp/internal/template/handler"
	httptransport "fismapp/internal/transport/http"
	"fismapp/pkg/platform/audit"
	auditworker "fismapp/pkg/platform/audit/worker"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	periods, err := config.LoadPeriods(cfg.PeriodsFile)
	if err != nil {
		return err
	}
	catalog := course.NewPeriodCatalog(periods)

	stores, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	healthChecks := map[string]httptransport.HealthCheck{}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	var limiter ratelimit.Limiter
	if redisClient != nil {
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient.Client)
		healthChecks["redis"] = redisClient.Health
		log.Info("rate limiter backed by redis")
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	publisher, stopAudit := buildAudit(ctx, cfg, log)
	defer stopAudit()

	httpMetrics := metrics.New()
	issueMetrics := certmetrics.New()

	engine := certificate.NewEngine(
		stores.templates,
		stores.recipients,
		stores.ledger,
		catalog,
		log,
		certificate.WithMetrics(issueMetrics),
		certificate.WithAuditPublisher(publisher),
		certificate.WithDefaultAddressee(cfg.DefaultAddressee),
		certificate.WithBulkConcurrency(cfg.BulkConcurrency),
	)
	verifier := certificate.NewVerifier(
		stores.ledger,
		log,
		certificate.VerifierWithMetrics(issueMetrics),
		certificate.VerifierWithAuditPublisher(publisher),
	)

	renderer := render.NewPDFRenderer(cfg.VerifyBaseURL)
	certHandler := certhandler.New(engine, verifier, stores.templates, stores.courses, renderer, log)

	var validator middleware.JWTValidator = auth.NewValidator(cfg.JWTSigningKey)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:           log,
		Metrics:          httpMetrics,
		JWTValidator:     validator,
		Certificates:     certHandler,
		Templates:        templatehandler.New(stores.templates),
		Recipients:       recipienthandler.New(stores.recipients),
		Limiter:          limiter,
		VerifyRateLimit:  cfg.VerifyRateLimit,
		VerifyRateWindow: cfg.VerifyRateWindow,
		MetricsHandler:   promhttp.Handler(),
		HealthChecks:     healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting fismapp certificate service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type storeSet struct {
	templates  template.Store
	recipients recipient.Store
	courses    course.Store
	ledger     certificate.Ledger
}

func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*storeSet, func(), error) {
	noop := func() {}

	switch {
	case cfg.DatabaseURL != "":
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		templates := template.NewPostgresStore(db)
		recipients := recipient.NewPostgresStore(db)
		courses := course.NewPostgresStore(db)
		ledger := certificate.NewPostgresLedger(db)
		for _, ensure := range []func(context.Context) error{
			templates.EnsureSchema,
			recipients.EnsureSchema,
			courses.EnsureSchema,
			ledger.EnsureSchema,
		} {
			if err := ensure(ctx); err != nil {
				db.Close()
				return nil, noop, err
			}
		}
		log.Info("stores backed by postgres")
		return &storeSet{
			templates:  templates,
			recipients: recipients,
			courses:    courses,
			ledger:     ledger,
		}, func() { db.Close() }, nil

	case cfg.SQLitePath != "":
		ledger, err := certificate.OpenSQLiteLedger(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		log.Info("ledger backed by sqlite", "path", cfg.SQLitePath)
		return &storeSet{
			templates:  template.NewMemoryStoreWithDefaults(),
			recipients: recipient.NewMemoryStore(),
			courses:    course.NewMemoryStore(),
			ledger:     ledger,
		}, func() { ledger.Close() }, nil

	default:
		log.Warn("no database configured, using in-memory stores")
		return &storeSet{
			templates:  template.NewMemoryStoreWithDefaults(),
			recipients: recipient.NewMemoryStore(),
			courses:    course.NewMemoryStore(),
			ledger:     certificate.NewMemoryLedger(),
		}, noop, nil
	}
}

// buildAudit selects the audit pipeline: Kafka when brokers are configured,
// otherwise an in-process worker draining a bounded channel.
func buildAudit(ctx context.Context, cfg config.Config, log *slog.Logger) (audit.Publisher, func()) {
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka audit publisher unavailable, falling back to in-process store", "error", err)
		} else {
			log.Info("audit events published to kafka", "topic", cfg.AuditTopic)
			return kafka, kafka.Close
		}
	}

	inbox := make(chan audit.Event, 256)
	worker := auditworker.NewWorker(audit.NewMemoryStore(), inbox)
	workerCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()
	return audit.NewChannelPublisher(inbox, log), cancel
}
