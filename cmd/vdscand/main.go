package main

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/crgimenes/goconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quay/zlog"
	"github.com/rs/zerolog"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/cache"
	"github.com/hostvuln/scanorch/internal/codec"
	"github.com/hostvuln/scanorch/internal/config"
	"github.com/hostvuln/scanorch/internal/inventory"
	"github.com/hostvuln/scanorch/internal/metrics"
	"github.com/hostvuln/scanorch/internal/orchestrator"
)

func main() {
	ctx := context.Background()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).
		With().Timestamp().Caller().
		Logger()

	conf := config.Config{}
	if err := goconfig.Parse(&conf); err != nil {
		log.Fatal().Msgf("failed to parse config: %v", err)
	}
	log = log.Level(logLevel(conf.LogLevel))
	zlog.Set(&log)

	doc, err := config.LoadDocument(conf.DocumentPath)
	if err != nil {
		log.Warn().Err(err).Msg("no vulnerability-detection document found, using defaults")
		doc = config.Document{OsDataLRUSize: config.DefaultOsDataLRUSize}
	}
	if !doc.Enabled {
		log.Info().Msg("vulnerability-detection.enabled is no; exiting")
		return
	}

	store, err := inventory.Open(conf.InventoryPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open inventory store")
	}
	defer store.Close()

	osCache, err := cache.NewOsDataCache(doc.OsDataLRUSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct OS data cache")
	}
	remediationCache, err := cache.NewRemediationDataCache(cache.DefaultSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct remediation data cache")
	}

	collab := orchestrator.Collaborators{
		Feed:            noopFeedManager{},
		Store:           store,
		Dispatcher:      loggingDispatcher{},
		Indexer:         loggingIndexer{},
		ArrayIndexer:    loggingArrayIndexer{},
		GlobalAgents:    emptyAgentList{},
		OsDataCache:     osCache,
		RemediationData: remediationCache,
		StopPredicate:   func() bool { return false },
	}
	collab.Rescan = func(ctx context.Context, agent scanorch.Agent) error {
		zlog.Info(ctx).Str("agent", agent.ID).Msg("rescan requested")
		return nil
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Info().Msg("serving metrics on :9090/metrics")
		if err := http.ListenAndServe(":9090", mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server exited")
		}
	}()

	log.Info().Msg("vdscand reading JSON action events from stdin")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		handleLine(ctx, []byte(line), collab)
	}
}

func handleLine(ctx context.Context, line []byte, collab orchestrator.Collaborators) {
	sc, err := codec.DecodeJSON(line)
	if err != nil {
		zlog.Error(ctx).Err(err).Msg("dropping malformed event")
		metrics.ObserveDrop(err)
		return
	}
	if err := orchestrator.Run(ctx, sc, collab); err != nil {
		zlog.Error(ctx).Err(err).Str("agent", sc.Agent.ID).Msg("dropping event")
		metrics.ObserveDrop(err)
	}
}

func logLevel(level string) zerolog.Level {
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
		return l
	}
	return zerolog.InfoLevel
}
