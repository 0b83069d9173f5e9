package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"listkeeper/pkg/aggregate"
	"listkeeper/pkg/category"
	"listkeeper/pkg/config"
	"listkeeper/pkg/logger"
	"listkeeper/pkg/source"
	"listkeeper/pkg/store"
	"listkeeper/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	// API keys may live in a local .env file; its absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Setup()
	if err != nil {
		logger.Setup("info", "stdout").Error("failed to load config", "error", err)
		return 1
	}

	log := logger.Setup(cfg.Logging.Level, cfg.Logging.File)
	log.Info("starting aggregation run",
		"version", version.ListkeeperVersion,
		"output", cfg.Output.Dir,
	)

	st, err := store.New(cfg.Output.Dir, log)
	if err != nil {
		log.Error("failed to initialize store", "error", err)
		return 1
	}

	sources := source.Build(cfg.SourceConfig(), log)
	runner := aggregate.New(sources, st, cfg.Fetch.Concurrency, log)
	summary := runner.Run(context.Background())

	for _, cat := range category.All() {
		if err, ok := summary.WriteErrors[cat]; ok {
			log.Error("category not written", "category", string(cat), "error", err)
			continue
		}
		log.Info("category updated", "category", string(cat), "entries", summary.Counts[cat])
	}
	log.Info("run complete",
		"contributing", summary.Contributing,
		"skipped", summary.Skipped,
	)

	if summary.Failed() {
		log.Error("every category write failed")
		return 1
	}
	return 0
}
