// main wires the pipeline: lookup client behind cache and rate limiter,
// verification agents, scoring engine and stores, admin auth, and the HTTP
// surface. Business logic lives in the internal packages.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trustlens/internal/agents"
	"trustlens/internal/auth"
	"trustlens/internal/cache"
	"trustlens/internal/evidence"
	"trustlens/internal/firm"
	"trustlens/internal/lookup"
	"trustlens/internal/notify"
	"trustlens/internal/pipeline"
	"trustlens/internal/platform/config"
	"trustlens/internal/platform/httpserver"
	"trustlens/internal/platform/logger"
	"trustlens/internal/platform/postgres"
	platformredis "trustlens/internal/platform/redis"
	"trustlens/internal/ratelimit"
	"trustlens/internal/scoring"
	"trustlens/internal/scoring/store"
	httptransport "trustlens/internal/transport/http"
	"trustlens/internal/verify"
	verifymetrics "trustlens/internal/verify/metrics"
	"trustlens/pkg/audit"
)

const tokenTTL = time.Hour

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var backend cache.Backend = cache.NewMemoryBackend()
	if redisClient != nil {
		backend = cache.NewRedisBackend(redisClient.Client)
		defer redisClient.Close()
	}
	lookupCache := cache.New("lookup", backend, cache.WithLogger(log))

	limiter, err := ratelimit.PerMinute("registry_lookup", cfg.Lookup.RatePerMinute)
	if err != nil {
		log.Error("rate limiter setup failed", "error", err)
		os.Exit(1)
	}

	var lookupBackend lookup.Backend
	evidenceSource := evidence.SourcePrimary
	if cfg.Server.MockMode || cfg.Lookup.BaseURL == "" {
		fake := lookup.NewFakeBackend()
		seedFake(fake)
		lookupBackend = fake
		evidenceSource = evidence.SourceMock
		log.Warn("serving fake lookup backend")
	} else {
		lookupBackend = lookup.NewLiveBackend(cfg.Lookup)
	}

	lookupClient, err := lookup.NewClient(lookupBackend, lookupCache, limiter, lookup.WithLogger(log))
	if err != nil {
		log.Error("lookup client setup failed", "error", err)
		os.Exit(1)
	}

	verifier, err := verify.NewService(lookupClient,
		verify.WithLogger(log),
		verify.WithMetrics(verifymetrics.New()),
	)
	if err != nil {
		log.Error("verifier setup failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	var (
		firms       firm.Store
		evidenceLog evidence.Store
		scoreStore  store.Store
	)
	if pool != nil {
		sqlDB, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
		firms = firm.NewPostgresStore(sqlDB)
		evidenceLog, err = evidence.NewPostgresStore(pool)
		if err != nil {
			log.Error("evidence store setup failed", "error", err)
			os.Exit(1)
		}
		scoreStore, err = store.NewPostgresStore(pool)
		if err != nil {
			log.Error("scoring store setup failed", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("no postgres DSN, serving in-memory stores")
		firms = seedFirms()
		evidenceLog = evidence.NewMemoryStore()
		memStore := store.NewMemoryStore()
		seedScoring(ctx, memStore, log)
		scoreStore = memStore
	}

	auditor := audit.NewPublisher(audit.NewMemoryStore(),
		audit.WithLogger(log),
		audit.WithAsyncBuffer(256),
	)
	defer auditor.Close()

	var notifier notify.Publisher = notify.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka publisher setup failed", "error", err)
			os.Exit(1)
		}
		notifier = kafkaPub
	}
	defer notifier.Close()

	registry := buildAgents(log, verifier, evidenceSource)

	engine, err := scoring.NewEngine(scoreStore, scoring.WithLogger(log))
	if err != nil {
		log.Error("scoring engine setup failed", "error", err)
		os.Exit(1)
	}

	pipelineSvc, err := pipeline.NewService(firms, registry, evidenceLog, engine, scoreStore,
		pipeline.WithLogger(log),
		pipeline.WithAudit(auditor),
		pipeline.WithNotifier(notifier),
	)
	if err != nil {
		log.Error("pipeline setup failed", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenService(cfg.Server.JWTSigningKey, "trustlens", tokenTTL)
	login := auth.NewLoginService(tokens, cfg.Server.AdminKeyHash, auditor, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Verify:   verifier,
		Pipeline: pipelineSvc,
		Configs:  &configAdmin{store: scoreStore, auditor: auditor},
		Login:    login,
		Tokens:   tokens,
		Logger:   log,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr, "mock_mode", cfg.Server.MockMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownWindow)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildAgents registers the full agent set. Supporting sources run in
// memory until their upstream feeds are wired in.
func buildAgents(log *slog.Logger, verifier *verify.Service, source evidence.Source) *agents.Registry {
	registry := agents.NewRegistry(agents.WithLogger(log))

	reviews := agents.NewMemoryReviews()
	news := agents.NewMemoryNewsFeed()
	submissions := agents.NewMemorySubmissions()
	cases := agents.NewMemoryCases()
	reports := agents.NewMemoryReports()

	register := func(name string, agent agents.Agent) {
		if err := registry.Register(name, agent); err != nil {
			log.Error("agent registration failed", "agent", name, "error", err)
			os.Exit(1)
		}
	}

	register(agents.AgentRegistryCheck, agents.NewRegistryCheckAgent(verifier, source))
	register(agents.AgentSanctionsScreen, agents.NewSanctionsScreenAgent(verifier, source))
	register(agents.AgentReputation, agents.NewReputationAgent(reviews, source))
	register(agents.AgentRegulatoryNews, agents.NewNewsAgent(news, agents.KeywordClassifier, source))
	register(agents.AgentSubmissions, agents.NewSubmissionAgent(submissions, source))
	register(agents.AgentInvestigation, agents.NewInvestigationAgent(cases, source))
	register(agents.AgentComplianceReport, agents.NewComplianceAgent(reports, source))

	return registry
}
