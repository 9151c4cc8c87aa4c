package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/yourorg/asset-publish/internal/api"
	"github.com/yourorg/asset-publish/internal/config"
	"github.com/yourorg/asset-publish/internal/logging"
	apmetrics "github.com/yourorg/asset-publish/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer zl.Sync()

	r := gin.Default()

	// CORS middleware
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(cfg.HTTP.AllowOrigins) == 1 && cfg.HTTP.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.HTTP.AllowOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	apmetrics.Init()
	r.GET("/metrics", gin.WrapH(apmetrics.Handler()))

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.Address,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		zl.Fatal("temporal client", zap.Error(err))
	}
	defer temporalClient.Close()

	apiV1 := r.Group("/api/v1")
	api.NewWorkflowHandler(temporalClient, cfg.Temporal.TaskQueue, zl).Register(apiV1)

	zl.Info("server starting", zap.String("port", cfg.HTTP.Port))
	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		zl.Fatal("server failed", zap.Error(err))
	}
}
