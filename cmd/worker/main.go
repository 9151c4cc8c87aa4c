package main

import (
	"context"
	"log"

	tactivity "go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	tworkflow "go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/yourorg/asset-publish/internal/activities"
	"github.com/yourorg/asset-publish/internal/config"
	"github.com/yourorg/asset-publish/internal/logging"
	apmetrics "github.com/yourorg/asset-publish/internal/metrics"
	"github.com/yourorg/asset-publish/internal/publish"
	"github.com/yourorg/asset-publish/internal/storage"
	"github.com/yourorg/asset-publish/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	// Structured logger (zap)
	zl := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer zl.Sync()

	// Metrics server
	apmetrics.Init()
	go func() {
		if err := apmetrics.Serve(cfg.MetricsAddr); err != nil {
			zl.Error("metrics server", zap.Error(err))
		}
	}()

	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		zl.Fatal("storage init", zap.Error(err))
	}
	pcfg, err := publish.ConfigFrom(cfg.Storage)
	if err != nil {
		zl.Fatal("storage config", zap.Error(err))
	}

	c, err := client.Dial(client.Options{HostPort: cfg.Temporal.Address, Namespace: cfg.Temporal.Namespace})
	if err != nil {
		zl.Fatal("temporal client", zap.Error(err))
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	acts := activities.New(publish.New(store, pcfg, zl))
	// Register with explicit names matching workflow.ExecuteActivity and the API
	w.RegisterActivityWithOptions(acts.PublishAssetSet, tactivity.RegisterOptions{Name: workflow.PublishAssetSetActivity})
	w.RegisterWorkflowWithOptions(workflow.PublishAssetSetWorkflow, tworkflow.RegisterOptions{Name: workflow.PublishAssetSetName})

	zl.Info("worker started",
		zap.String("namespace", cfg.Temporal.Namespace),
		zap.String("taskQueue", cfg.Temporal.TaskQueue),
		zap.String("driver", cfg.Storage.Driver),
		zap.String("metrics", cfg.MetricsAddr))
	if err := w.Run(worker.InterruptCh()); err != nil {
		zl.Fatal("worker failed", zap.Error(err))
	}
}
