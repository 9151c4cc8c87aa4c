package activities

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	iopkg "github.com/yourorg/asset-publish/internal/iopkg"
	"github.com/yourorg/asset-publish/internal/manifest"
	"github.com/yourorg/asset-publish/internal/normalize"
	"github.com/yourorg/asset-publish/internal/publish"
	"github.com/yourorg/asset-publish/internal/types"
)

// Publisher is satisfied by *publish.Uploader.
type Publisher interface {
	PublishAssetSet(ctx context.Context, bucket, imagePath, animationPath string, manifestJSON []byte) (*publish.Published, error)
}

type Activities struct {
	publisher Publisher
}

func New(p Publisher) *Activities { return &Activities{publisher: p} }

// PublishAssetSet uploads the asset set described by p. Bad input (bucket,
// manifest, missing media) fails without retry; store failures are reported
// in the result rather than as an error.
func (a *Activities) PublishAssetSet(ctx context.Context, p types.PublishParams) (types.PublishResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Publishing asset set", "bucket", p.Bucket, "image", p.ImagePath, "animation", p.AnimationPath)

	if err := normalize.ValidateBucket(p.Bucket); err != nil {
		return types.PublishResult{}, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidBucket", err)
	}

	body := []byte(p.Manifest)
	if len(body) == 0 {
		if p.ManifestURI == "" {
			return types.PublishResult{}, temporal.NewNonRetryableApplicationError("manifest or manifest_uri is required", "MissingManifest", nil)
		}
		var err error
		body, err = iopkg.ReadAll(ctx, p.ManifestURI)
		if err != nil {
			err = fmt.Errorf("read manifest %s: %w", p.ManifestURI, err)
			if errors.Is(err, fs.ErrNotExist) {
				return types.PublishResult{}, temporal.NewNonRetryableApplicationError(err.Error(), "MissingManifest", err)
			}
			return types.PublishResult{}, err
		}
	}

	pub, err := a.publisher.PublishAssetSet(ctx, p.Bucket, p.ImagePath, p.AnimationPath, body)
	switch {
	case errors.Is(err, manifest.ErrMalformed):
		return types.PublishResult{}, temporal.NewNonRetryableApplicationError(err.Error(), "MalformedManifest", err)
	case errors.Is(err, fs.ErrNotExist):
		return types.PublishResult{}, temporal.NewNonRetryableApplicationError(err.Error(), "MissingMedia", err)
	case err != nil:
		return types.PublishResult{}, err
	}

	res := pub.Summary()
	logger.Info("Published asset set", "metadata", res.MetadataURL, "failed", res.Failed)
	return res, nil
}
