package storage

import (
	"errors"
	"strings"
)

// URLStyle selects how public object URLs are formed.
type URLStyle string

const (
	VirtualHosted URLStyle = "virtual-hosted"
	PathStyle     URLStyle = "path"
)

var ErrUnknownURLStyle = errors.New("unknown url style")

func ParseURLStyle(s string) (URLStyle, error) {
	switch URLStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", VirtualHosted:
		return VirtualHosted, nil
	case PathStyle:
		return PathStyle, nil
	default:
		return "", ErrUnknownURLStyle
	}
}

// ObjectURL returns the public URL of key in bucket. The key is used verbatim.
func ObjectURL(style URLStyle, bucket, key string) string {
	if style == PathStyle {
		return "https://s3.amazonaws.com/" + bucket + "/" + key
	}
	return "https://" + bucket + ".s3.amazonaws.com/" + key
}
