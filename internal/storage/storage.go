package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yourorg/asset-publish/internal/config"
)

// ACLPublicRead is the canned ACL applied when none is configured.
const ACLPublicRead = "public-read"

var ErrUnknownDriver = errors.New("unknown storage driver")

// PutInput describes a single object write.
type PutInput struct {
	Bucket      string
	Key         string
	ContentType string // empty means unset
	ACL         string
	Body        io.Reader
	Size        int64 // byte count of Body; 0 or less when unknown
}

// ObjectStore writes objects to a bucket.
type ObjectStore interface {
	Put(ctx context.Context, in PutInput) error
}

// New returns the ObjectStore selected by cfg.Driver ("s3" or "minio").
func New(ctx context.Context, cfg config.Storage) (ObjectStore, error) {
	switch cfg.Driver {
	case "", "s3":
		return NewS3(ctx, cfg)
	case "minio":
		return NewMinio(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
