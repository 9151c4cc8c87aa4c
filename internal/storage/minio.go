package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yourorg/asset-publish/internal/config"
)

// unknownSizePartSize bounds the buffer minio-go allocates when the object
// size is not known up front. Left at zero it sizes parts for a 5 TiB object.
const unknownSizePartSize = 16 << 20

type minioPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioStore writes through minio-go to any S3-compatible endpoint.
type MinioStore struct {
	client minioPutter
}

func NewMinio(cfg config.Storage) (*MinioStore, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	if endpoint == "" {
		return nil, errors.New("minio driver requires STORAGE_ENDPOINT")
	}
	creds := credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	if cfg.AccessKey == "" {
		creds = credentials.NewEnvAWS()
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{client: client}, nil
}

func (m *MinioStore) Put(ctx context.Context, in PutInput) error {
	size, opts := in.Size, putOptions(in)
	if size <= 0 {
		size = -1
		opts.PartSize = unknownSizePartSize
	}
	_, err := m.client.PutObject(ctx, in.Bucket, in.Key, in.Body, size, opts)
	return err
}

func putOptions(in PutInput) minio.PutObjectOptions {
	opts := minio.PutObjectOptions{ContentType: in.ContentType}
	if in.ACL != "" {
		// x-amz-* keys are sent as headers rather than user metadata.
		opts.UserMetadata = map[string]string{"x-amz-acl": in.ACL}
	}
	return opts
}
