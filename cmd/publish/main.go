package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/asset-publish/internal/config"
	iopkg "github.com/yourorg/asset-publish/internal/iopkg"
	"github.com/yourorg/asset-publish/internal/logging"
	"github.com/yourorg/asset-publish/internal/normalize"
	"github.com/yourorg/asset-publish/internal/publish"
	"github.com/yourorg/asset-publish/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bucket := flag.String("bucket", cfg.Storage.Bucket, "destination bucket (STORAGE_BUCKET)")
	image := flag.String("image", "", "path of the image to publish")
	animation := flag.String("animation", "", "optional path of the animation")
	manifestURI := flag.String("manifest", "", "manifest JSON: local path, file:// or s3:// URI")
	strict := flag.Bool("strict", false, "exit 1 when any upload failed")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	if *image == "" || *manifestURI == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := normalize.ValidateBucket(*bucket); err != nil {
		log.Fatalf("bucket: %v", err)
	}

	zl := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		zl.Fatal("storage init", zap.Error(err))
	}
	pcfg, err := publish.ConfigFrom(cfg.Storage)
	if err != nil {
		zl.Fatal("storage config", zap.Error(err))
	}

	body, err := iopkg.ReadAll(ctx, *manifestURI)
	if err != nil {
		zl.Fatal("read manifest", zap.String("uri", *manifestURI), zap.Error(err))
	}

	pub, err := publish.New(store, pcfg, zl).PublishAssetSet(ctx, *bucket, *image, *animation, body)
	if err != nil {
		zl.Fatal("publish", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pub.Summary()); err != nil {
		zl.Fatal("write result", zap.Error(err))
	}
	if err := pub.Err(); err != nil {
		zl.Warn("some uploads failed", zap.Error(err))
		if *strict {
			zl.Sync()
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
