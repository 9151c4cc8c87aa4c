package iopkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3iface is the minimal subset of s3 client methods we use; allows test fakes.
type s3iface interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// newS3Client constructs an s3 client; overridden in tests.
var newS3Client = func(ctx context.Context) (s3iface, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

// Open returns a ReadCloser and (if known) size for a local path, file:// or s3:// URI.
func Open(ctx context.Context, uri string) (io.ReadCloser, int64, error) {
	if !strings.Contains(uri, "://") {
		return openFile(uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, 0, err
	}
	switch u.Scheme {
	case "file":
		return openFile(strings.TrimPrefix(uri, "file://"))
	case "s3":
		cl, err := newS3Client(ctx)
		if err != nil {
			return nil, 0, err
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, 0, errors.New("invalid s3 uri: " + uri)
		}
		resp, err := cl.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(u.Host), Key: aws.String(key),
		})
		if err != nil {
			return nil, 0, fmt.Errorf("get s3://%s/%s: %w", u.Host, key, err)
		}
		var sz int64
		if resp.ContentLength != nil {
			sz = *resp.ContentLength
		}
		return resp.Body, sz, nil
	default:
		return nil, 0, errors.New("unsupported scheme: " + u.Scheme)
	}
}

// ReadAll reads the whole object behind uri.
func ReadAll(ctx context.Context, uri string) ([]byte, error) {
	rc, _, err := Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func openFile(p string) (io.ReadCloser, int64, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, 0, err
	}
	var sz int64
	if st, _ := f.Stat(); st != nil {
		sz = st.Size()
	}
	return f, sz, nil
}
