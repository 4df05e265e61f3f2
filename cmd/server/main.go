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
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clubdir/internal/authz/evaluator"
	"clubdir/internal/authz/handler"
	authzmetrics "clubdir/internal/authz/metrics"
	"clubdir/internal/authz/service"
	"clubdir/internal/directory/ports"
	"clubdir/internal/directory/store"
	"clubdir/internal/directory/store/memory"
	"clubdir/internal/directory/store/postgres"
	"clubdir/internal/directory/store/scopecache"
	jwttoken "clubdir/internal/jwt_token"
	"clubdir/internal/platform/config"
	"clubdir/internal/platform/httpserver"
	"clubdir/internal/platform/logger"
	"clubdir/internal/platform/metrics"
	platformredis "clubdir/internal/platform/redis"
	id "clubdir/pkg/domain"
	"clubdir/pkg/platform/audit"
	"clubdir/pkg/platform/audit/publisher"
	kafkapub "clubdir/pkg/platform/audit/publishers/kafka"
	auditmem "clubdir/pkg/platform/audit/store/memory"
	auditpg "clubdir/pkg/platform/audit/store/postgres"
	"clubdir/pkg/platform/httputil"
	"clubdir/pkg/platform/middleware/metadata"
	"clubdir/pkg/platform/middleware/requesttime"
)

// main wires stores, the engine, and the HTTP surface. Anything without
// external configuration falls back to in-memory so a bare `go run` serves
// decisions against seeded development data.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	// Directory store: postgres when configured, seeded memory otherwise.
	// The audit trail follows the same choice so decisions and their trail
	// share one durability story.
	var dir ports.Store
	var trail audit.Store = auditmem.NewInMemoryStore()
	var closers []func() error
	if cfg.Database.URL != "" {
		pgStore, db, err := postgres.Open(cfg.Database)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		closers = append(closers, db.Close)
		dir = pgStore
		trail = auditpg.New(db)
		log.Info("directory store: postgres")
	} else {
		mem := memory.New()
		devAdmin := store.SeedDevDirectory(mem)
		dir = mem
		log.Warn("directory store: in-memory development seed",
			"dev_admin_principal", devAdmin,
		)
	}

	// Optional redis scope chain cache.
	if cfg.Redis.URL != "" {
		rdb, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		closers = append(closers, rdb.Close)
		cache := scopecache.New(dir, rdb.Client, cfg.Redis.ChainTTL, scopecache.WithLogger(log))
		dir = store.WithScopeCache(dir, cache)
		log.Info("scope chain cache: redis", "ttl", cfg.Redis.ChainTTL)
	}

	// Audit sink: kafka when configured, the local trail otherwise. The
	// trail also backs the admin read endpoint; the kafka path keeps it as
	// the fallback store for broker outages.
	localPub := publisher.NewPublisher(trail,
		publisher.WithLogger(log),
		publisher.WithAsyncBuffer(256),
	)
	var auditSink audit.Publisher = localPub
	if cfg.Kafka.Brokers != "" {
		kp, err := kafkapub.New(kafkapub.ParseBrokers(cfg.Kafka.Brokers),
			kafkapub.WithTopic(cfg.Kafka.Topic),
			kafkapub.WithFallbackStore(trail),
			kafkapub.WithLogger(log),
		)
		if err != nil {
			log.Error("kafka audit publisher failed", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := kp.EnsureTopic(ctx); err != nil {
			log.Error("kafka audit topic creation failed", "error", err)
			cancel()
			os.Exit(1)
		}
		cancel()
		closers = append(closers, func() error { kp.Close(); return nil })
		auditSink = kp
		log.Info("audit sink: kafka", "topic", cfg.Kafka.Topic)
	}

	engine := service.New(dir,
		service.WithLogger(log),
		service.WithAuditPublisher(auditSink),
		service.WithMetrics(authzmetrics.New()),
		service.WithPolicy(evaluator.Policy{
			MissionaryManagesAdminGrants: cfg.MissionaryManagesAdminGrants,
		}),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "clubdir", "clubdir")
	validate := func(token string) (id.PrincipalID, error) {
		principal, err := jwtService.ExtractPrincipalID(token)
		if err != nil {
			return id.PrincipalID(uuid.Nil), err
		}
		return id.PrincipalID(principal), nil
	}

	h := handler.New(engine, localPub, log, metrics.New(), validate, cfg.AdminToken)

	router := chi.NewRouter()
	router.Use(requesttime.Middleware)
	router.Use(metadata.ClientMetadata)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	h.Register(router)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting clubdir authorization server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := httpserver.Shutdown(srv, 10*time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	localPub.Close()
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Warn("close failed", "error", err)
		}
	}
}
