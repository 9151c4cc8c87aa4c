package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/yourorg/asset-publish/internal/config"
)

// uploadAPI is the subset of manager.Uploader we use; allows test fakes.
type uploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Client struct {
	uploader uploadAPI
}

// NewS3 creates an S3 client in the configured region. Credentials come from
// the SDK default chain. Endpoint and ForcePathStyle support S3-compatible stores.
func NewS3(ctx context.Context, cfg config.Storage) (*S3Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})
	return &S3Client{uploader: manager.NewUploader(client)}, nil
}

func (s *S3Client) Put(ctx context.Context, in PutInput) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(in.Bucket),
		Key:    aws.String(in.Key),
		Body:   in.Body,
	}
	if in.ACL != "" {
		input.ACL = s3types.ObjectCannedACL(in.ACL)
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}
	_, err := s.uploader.Upload(ctx, input)
	return err
}
