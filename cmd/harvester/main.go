package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/manchete-hq/manchete-harvester/internal/config"
	"github.com/manchete-hq/manchete-harvester/internal/dedup"
	"github.com/manchete-hq/manchete-harvester/internal/extract"
	"github.com/manchete-hq/manchete-harvester/internal/feed"
	"github.com/manchete-hq/manchete-harvester/internal/fetch"
	"github.com/manchete-hq/manchete-harvester/internal/filter"
	"github.com/manchete-hq/manchete-harvester/internal/logger"
	"github.com/manchete-hq/manchete-harvester/internal/pipeline"
	"github.com/manchete-hq/manchete-harvester/internal/publish"
	"github.com/manchete-hq/manchete-harvester/internal/sanitize"
	"github.com/manchete-hq/manchete-harvester/internal/seen"
	"github.com/manchete-hq/manchete-harvester/internal/store"
	"github.com/manchete-hq/manchete-harvester/pkg/events"
	"github.com/manchete-hq/manchete-harvester/pkg/httpclient"
)

const (
	fetchTimeout    = 15 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// optional in production; deployments inject the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	strategies := extract.DefaultRegistry()
	for _, src := range cfg.Sources {
		if _, err := strategies.StrategyFor(src.Strategy); err != nil {
			return fmt.Errorf("source %s: %w", src.Name, err)
		}
	}

	client := httpclient.NewRestyClient(fetchTimeout)
	storeClient := store.NewClient(cfg.Store.URL, cfg.Store.Identifier, cfg.Store.Password, log)

	cache, err := seen.Open(cfg.SeenCachePath)
	if err != nil {
		log.WarnObj("seen cache unavailable, relying on store lookups only", "seen_cache_open_error", map[string]any{
			"path":  cfg.SeenCachePath,
			"error": err.Error(),
		})
		cache = nil
	} else {
		defer cache.Close()
	}

	var deduper *dedup.Deduplicator
	var publisher *publish.Publisher
	if cache != nil {
		deduper = dedup.New(storeClient, cache, log)
		publisher = publish.New(storeClient, cache, cfg.Store.Author, log)
	} else {
		deduper = dedup.New(storeClient, nil, log)
		publisher = publish.New(storeClient, nil, cfg.Store.Author, log)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// cycles run on their own context so a shutdown signal stops new
	// cycles without cutting in-flight fetches short; they finish or
	// hit their own timeouts
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	var fanout *events.Fanout
	if cfg.EventsFile != "" {
		sinkCfgs, err := events.LoadSinkConfigs(cfg.EventsFile)
		if err != nil {
			return fmt.Errorf("load event sinks: %w", err)
		}
		sinks, err := events.BuildAll(runCtx, events.DefaultRegistry(), sinkCfgs, log)
		if err != nil {
			return fmt.Errorf("build event sinks: %w", err)
		}
		fanout = events.NewFanout(sinks, log)
	}

	orch := pipeline.NewOrchestrator(pipeline.OrchestratorDeps{
		Feeds:        feed.NewReader(client, log),
		Fetcher:      fetch.NewFetcher(client, log),
		Strategies:   strategies,
		Sanitizer:    sanitize.New(),
		Policy:       filter.New(cfg.FilterKeywords),
		Dedup:        deduper,
		Publisher:    publisher,
		Emitter:      fanout,
		DefaultDelay: cfg.RequestDelay,
		DefaultCap:   cfg.ItemCap,
		Log:          log,
	})

	sched := pipeline.NewScheduler(orch, cfg.Sources, cfg.PollInterval, log)
	if err := sched.Start(runCtx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-sigCtx.Done()
	log.InfoObj("shutdown signal received", "shutdown", nil)

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		cancelRun()
		return err
	}
	return nil
}
