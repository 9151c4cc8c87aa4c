package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var (
	// ErrInvalidBucket indicates the name cannot be used as a virtual-hosted bucket.
	ErrInvalidBucket = errors.New("invalid bucket name")
)

var (
	bucketRe = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)
	ipv4Re   = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)
)

// ValidateBucket checks that name follows the S3 bucket naming rules and can
// appear as the host label of https://<bucket>.s3.amazonaws.com.
func ValidateBucket(name string) error {
	if !bucketRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidBucket, name)
	}
	if strings.Contains(name, "..") || ipv4Re.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidBucket, name)
	}
	// reserved by S3
	if strings.HasPrefix(name, "xn--") || strings.HasSuffix(name, "-s3alias") {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidBucket, name)
	}
	for _, label := range strings.Split(name, ".") {
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("%w: %q", ErrInvalidBucket, name)
		}
	}
	if _, err := idna.Lookup.ToASCII(name + ".s3.amazonaws.com"); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidBucket, name, err)
	}
	return nil
}
