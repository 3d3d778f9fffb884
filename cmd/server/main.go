package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"datatrail/internal/access"
	accesshandler "datatrail/internal/access/handler"
	"datatrail/internal/approval"
	approvalhandler "datatrail/internal/approval/handler"
	"datatrail/internal/audit"
	"datatrail/internal/consent"
	consenthandler "datatrail/internal/consent/handler"
	"datatrail/internal/platform/config"
	"datatrail/internal/platform/httpserver"
	"datatrail/internal/platform/logger"
	"datatrail/internal/platform/metrics"
	"datatrail/internal/platform/middleware"
	"datatrail/internal/records"
	recordshandler "datatrail/internal/records/handler"
	"datatrail/internal/registry"
	registryhandler "datatrail/internal/registry/handler"
	httptransport "datatrail/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		db   *sql.DB
		pool *pgxpool.Pool
		err  error
	)
	if cfg.PostgresDSN != "" {
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			return
		}
		defer db.Close()

		pool, err = pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("open pgx pool", "error", err)
			return
		}
		defer pool.Close()
	}

	sink, cleanup, err := buildSink(ctx, cfg, db)
	if err != nil {
		log.Error("build notification sink", "error", err)
		return
	}
	defer cleanup()

	var opts []audit.Option
	var mirror chan audit.Event
	var mirrorSink audit.Sink
	if cfg.RedisAddr != "" && cfg.NotifierSink != "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		mirror = make(chan audit.Event, 1024)
		mirrorSink = audit.NewRedisSink(rdb, cfg.RedisStream)
		opts = append(opts, audit.WithMirror(mirror))
	}
	notifier := audit.NewPublisher(sink, opts...)

	var (
		verifications registry.VerificationStore = registry.NewInMemoryStore()
		approvals     approval.Store             = approval.NewInMemoryStore()
		consents      consent.Store              = consent.NewInMemoryStore()
		recordLogs    records.Store              = records.NewInMemoryStore()
	)
	if db != nil {
		verifications = registry.NewPostgresStore(db)
		approvals = approval.NewPostgresStore(db)
		consents = consent.NewPostgresStore(db)
		recordLogs = records.NewPostgresStore(pool)
	}

	registrySvc := registry.NewService(verifications, cfg.AdminPrincipal, notifier, log, m)
	approvalSvc := approval.NewService(approvals, notifier, log, m)
	evaluator := access.NewEvaluator(registrySvc, approvalSvc)
	consentSvc := consent.NewService(consents, evaluator, notifier, log, m)
	recordsSvc := records.NewService(recordLogs, consentSvc, approvalSvc, evaluator, notifier, log, m)

	validator := middleware.NewHMACValidator(cfg.JWTSigningKey)
	requireAuth := middleware.RequireAuth(validator, cfg.AdminAPIKeyHash, cfg.AdminPrincipal, log)

	router := httptransport.NewRouter(log, requireAuth, httptransport.Handlers{
		Registry: registryhandler.New(registrySvc, log),
		Approval: approvalhandler.New(approvalSvc, log),
		Consent:  consenthandler.New(consentSvc, log),
		Records:  recordshandler.New(recordsSvc, log),
		Access:   accesshandler.New(evaluator, log),
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting datatrail", "addr", cfg.Addr, "sink", cfg.NotifierSink)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if mirror != nil {
		worker := audit.NewWorker(mirrorSink, mirror)
		g.Go(func() error {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("shutdown", "error", err)
	}
}

// buildSink selects the primary notification sink. The primary sink is
// fail-closed: mutations do not succeed unless it accepts the event.
func buildSink(ctx context.Context, cfg config.Server, db *sql.DB) (audit.Sink, func(), error) {
	switch cfg.NotifierSink {
	case "postgres":
		if db == nil {
			return nil, nil, errors.New("postgres sink requires POSTGRES_DSN")
		}
		return audit.NewPostgresStore(db), func() {}, nil
	case "kafka":
		client, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.KafkaBrokers...),
			kgo.DefaultProduceTopic(cfg.KafkaTopic),
		)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		return audit.NewKafkaSink(client, cfg.KafkaTopic), client.Close, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return audit.NewRedisSink(rdb, cfg.RedisStream), func() { _ = rdb.Close() }, nil
	default:
		return audit.NewInMemoryStore(), func() {}, nil
	}
}
