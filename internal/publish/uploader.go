// Package publish uploads an asset set (image, optional animation and the
// metadata manifest) and points the manifest at the uploaded objects.
//
// Store failures never abort a publish: the URL of every object is derived
// from bucket and key, and failures are reported per object in Result.Err.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourorg/asset-publish/internal/config"
	"github.com/yourorg/asset-publish/internal/manifest"
	"github.com/yourorg/asset-publish/internal/metrics"
	"github.com/yourorg/asset-publish/internal/sniff"
	"github.com/yourorg/asset-publish/internal/storage"
)

const metadataContentType = "application/json"

type Config struct {
	ACL      string           // canned ACL for every object; defaults to public-read
	URLStyle storage.URLStyle // defaults to virtual-hosted
	// ContentType maps a local path to a MIME type ("" when unknown).
	// Defaults to sniff.ContentType.
	ContentType func(path string) string
}

// ConfigFrom builds a Config from the storage section of the environment config.
func ConfigFrom(cfg config.Storage) (Config, error) {
	style, err := storage.ParseURLStyle(cfg.URLStyle)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %q", err, cfg.URLStyle)
	}
	return Config{ACL: cfg.ACL, URLStyle: style}, nil
}

type Uploader struct {
	store storage.ObjectStore
	cfg   Config
	log   *zap.Logger
	open  func(name string) (io.ReadCloser, error)
}

func New(store storage.ObjectStore, cfg Config, log *zap.Logger) *Uploader {
	if cfg.ACL == "" {
		cfg.ACL = storage.ACLPublicRead
	}
	if cfg.URLStyle == "" {
		cfg.URLStyle = storage.VirtualHosted
	}
	if cfg.ContentType == nil {
		cfg.ContentType = sniff.ContentType
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{
		store: store,
		cfg:   cfg,
		log:   log,
		open:  func(name string) (io.ReadCloser, error) { return os.Open(name) },
	}
}

// StoreObject issues one store request for key and returns its public URL.
// A failed request is logged and recorded in Result.Err; it is not retried.
func (u *Uploader) StoreObject(ctx context.Context, bucket, key, contentType string, body io.Reader) Result {
	res := Result{Key: key, URL: storage.ObjectURL(u.cfg.URLStyle, bucket, key)}
	err := u.store.Put(ctx, storage.PutInput{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		ACL:         u.cfg.ACL,
		Body:        body,
		Size:        bodySize(body),
	})
	if err != nil {
		res.Err = fmt.Errorf("store %s: %w", key, err)
		u.log.Debug("upload failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.String("code", storage.ErrorCode(err)),
			zap.Error(err))
		metrics.ObjectsStored.WithLabelValues("failed").Inc()
	} else {
		u.log.Info("uploaded", zap.String("key", key))
		metrics.ObjectsStored.WithLabelValues("ok").Inc()
	}
	u.log.Debug("location", zap.String("url", res.URL))
	return res
}

// PublishAssetSet uploads the image and, when animationPath is not empty, the
// animation; rewrites the manifest to reference them; and uploads the manifest
// under MetadataKey(imagePath).
//
// The returned error is reserved for a malformed manifest or an unreadable
// media file. A malformed manifest is detected before anything is uploaded.
func (u *Uploader) PublishAssetSet(ctx context.Context, bucket, imagePath, animationPath string, manifestJSON []byte) (*Published, error) {
	start := time.Now()
	m, err := manifest.Parse(manifestJSON)
	if err != nil {
		return nil, err
	}

	var image, animation Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		image, err = u.storeMedia(gctx, bucket, imagePath)
		return err
	})
	if animationPath != "" {
		g.Go(func() (err error) {
			animation, err = u.storeMedia(gctx, bucket, animationPath)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pub := &Published{Image: image}
	if animationPath != "" {
		pub.Animation = &animation
		m.SetAnimationURL(animation.URL)
	}
	m.SetImage(image.URL)
	m.RewriteFiles(image.URL, animation.URL, pub.Animation != nil)

	body, err := m.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	pub.Manifest = body
	pub.Metadata = u.StoreObject(ctx, bucket, MetadataKey(imagePath), metadataContentType, bytes.NewReader(body))

	metrics.AssetSetsPublished.Inc()
	metrics.PublishDuration.Observe(time.Since(start).Seconds())
	return pub, nil
}

// bodySize reports the byte count of readers that know it, or -1.
func bodySize(r io.Reader) int64 {
	switch b := r.(type) {
	case interface{ Len() int }:
		return int64(b.Len())
	case interface{ Stat() (fs.FileInfo, error) }:
		if st, err := b.Stat(); err == nil && st.Mode().IsRegular() {
			return st.Size()
		}
	}
	return -1
}

func (u *Uploader) storeMedia(ctx context.Context, bucket, path string) (Result, error) {
	key := MediaKey(path)
	u.log.Debug("media", zap.String("path", path), zap.String("key", key))
	f, err := u.open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open media: %w", err)
	}
	defer f.Close()
	return u.StoreObject(ctx, bucket, key, u.cfg.ContentType(path), f), nil
}
