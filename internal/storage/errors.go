package storage

import (
	"errors"

	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

// ErrorCode extracts the service error code (e.g. "AccessDenied") from an
// S3 or MinIO failure, or "" when the error did not come from the service.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	var me minio.ErrorResponse
	if errors.As(err, &me) {
		return me.Code
	}
	return ""
}
