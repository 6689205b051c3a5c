package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"workledger/internal/audit"
	"workledger/internal/authz"
	"workledger/internal/jwtauth"
	"workledger/internal/platform/config"
	"workledger/internal/platform/database"
	"workledger/internal/platform/health"
	"workledger/internal/platform/httpserver"
	"workledger/internal/platform/kafka"
	"workledger/internal/platform/logger"
	"workledger/internal/platform/metrics"
	redisplatform "workledger/internal/platform/redis"
	"workledger/internal/registry/cache"
	"workledger/internal/registry/service"
	"workledger/internal/registry/store"
	"workledger/internal/registry/tracer"
	httptransport "workledger/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing workledger",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	redisClient, err := redisplatform.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = kafka.NewProducer(kafka.Config{Brokers: cfg.KafkaBrokers}, log)
		if err != nil {
			log.Error("kafka init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()

		if err := producer.EnsureTopic(ctx, cfg.AuditTopic, 1); err != nil {
			log.Error("kafka topic setup failed", "error", err, "topic", cfg.AuditTopic)
			os.Exit(1)
		}
	}

	var auditStore audit.Store
	if pool != nil {
		auditStore = audit.NewPostgresStore(pool.DB())
	} else {
		auditStore = audit.NewInMemoryStore()
	}
	if producer != nil {
		auditStore = audit.NewKafkaStore(producer, cfg.AuditTopic, auditStore)
	}
	auditor := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
		audit.WithDropHook(m.IncrementAuditEventsDropped),
	)
	defer auditor.Close()

	var authorizer service.Authorizer
	if pool != nil {
		allowlist := authz.NewPostgresAllowlist(pool.DB())
		if err := allowlist.Seed(ctx, cfg.VerifierSubjects); err != nil {
			log.Error("verifier seed failed", "error", err)
			os.Exit(1)
		}
		authorizer = allowlist
	} else {
		authorizer = authz.NewInMemoryAllowlist(cfg.VerifierSubjects)
	}

	var recordStore service.Store
	if pool != nil {
		recordStore = store.NewPostgres(pool.DB())
	} else {
		log.Warn("no database configured, records are kept in memory")
		recordStore = store.New()
	}
	if redisClient != nil {
		recordStore = cache.New(recordStore, redisClient.Client, cfg.RecordCacheTTL, m, log)
	}

	tokens := jwtauth.NewService(cfg.JWTSigningKey, "workledger", cfg.TokenTTL)

	svc := service.NewService(recordStore, authorizer, auditor, log,
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
	)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(checkCtx)
		})
	}
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(checkCtx)
		})
	}
	if producer != nil {
		healthHandler.RegisterCheck("kafka", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return producer.Health(checkCtx)
		})
	}

	router := httptransport.NewRouter(httptransport.NewHandler(svc, log), httptransport.RouterConfig{
		Logger:    log,
		Metrics:   m,
		Validator: tokens,
		Health:    healthHandler,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if redisClient != nil {
		g.Go(func() error {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					redisClient.RecordPoolStats()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
