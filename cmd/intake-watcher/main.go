package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"yardgate/internal/config"
	"yardgate/internal/directory"
	"yardgate/internal/ledger"
	"yardgate/internal/logging"
	"yardgate/internal/pipeline"
	"yardgate/internal/rules"
	"yardgate/internal/storage"
	"yardgate/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	must(err)
	defer log.Sync()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	rb, err := rules.Load(cfg.RulebookPath)
	must(err)

	dir := directory.New(cfg.CustomerListPath)
	must(dir.Load())

	ldg := ledger.New(cfg.JobLedgerPath, cfg.JobPrefix)
	svc := pipeline.NewService(db, cfg, rb, dir, ldg, log)

	w := watcher.NewService(svc, cfg, log)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(w.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
