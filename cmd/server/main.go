package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"provreg/internal/audit"
	"provreg/internal/platform/config"
	"provreg/internal/platform/httpserver"
	"provreg/internal/platform/logger"
	platformmetrics "provreg/internal/platform/metrics"
	"provreg/internal/platform/middleware"
	platformpg "provreg/internal/platform/postgres"
	platformredis "provreg/internal/platform/redis"
	"provreg/internal/registry/handler"
	registrymetrics "provreg/internal/registry/metrics"
	"provreg/internal/registry/service"
	grantstore "provreg/internal/registry/store/grant"
	recordstore "provreg/internal/registry/store/record"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in internal/registry.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, grants, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("store initialization failed", "error", err)
		os.Exit(1)
	}

	auditStore, auditInbox, err := buildAudit(ctx, cfg)
	if err != nil {
		log.Error("audit initialization failed", "error", err)
		os.Exit(1)
	}

	svc := service.New(records, grants, cfg.AdminPrincipal,
		service.WithLogger(log),
		service.WithMetrics(registrymetrics.New()),
		service.WithAuditPublisher(audit.NewPublisher(chanSink{inbox: auditInbox})),
	)

	m := platformmetrics.New()
	validator := middleware.NewHS256Validator(cfg.JWTSigningKey)

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(svc, log, m, validator).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return audit.NewWorker(auditStore, auditInbox, log).Run(gctx)
	})

	g.Go(func() error {
		log.Info("starting provenance registry", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// buildStores selects backends from config: postgres and redis when
// configured, in-memory otherwise.
func buildStores(ctx context.Context, cfg config.Server) (service.RecordStore, service.GrantStore, error) {
	var records service.RecordStore = recordstore.NewInMemory()
	var grants service.GrantStore = grantstore.NewInMemory()

	if cfg.PostgresURL != "" {
		pool, err := platformpg.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		pgRecords := recordstore.NewPostgres(pool)
		if err := pgRecords.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		records = pgRecords

		pgGrants := grantstore.NewPostgres(pool)
		if err := pgGrants.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		grants = pgGrants
	}

	if cfg.RedisURL != "" {
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		grants = grantstore.NewRedis(client.Client)
	}

	return records, grants, nil
}

// buildAudit selects the audit sink: Kafka when brokers are configured,
// in-process buffer otherwise. Emission always goes through a channel so the
// request path never blocks on the sink.
func buildAudit(ctx context.Context, cfg config.Server) (audit.Store, chan audit.Event, error) {
	inbox := make(chan audit.Event, 256)

	if len(cfg.KafkaBrokers) > 0 {
		store, err := audit.NewKafkaStore(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			return nil, nil, err
		}
		return store, inbox, nil
	}
	return audit.NewInMemoryStore(), inbox, nil
}

// chanSink adapts the worker inbox to the audit.Store interface the
// publisher writes to. Drops events when the inbox is full rather than
// stalling a request.
type chanSink struct {
	inbox chan<- audit.Event
}

func (s chanSink) Append(_ context.Context, event audit.Event) error {
	select {
	case s.inbox <- event:
		return nil
	default:
		return errors.New("audit inbox full")
	}
}
