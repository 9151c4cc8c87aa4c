// Package sniff maps local file paths to MIME types.
package sniff

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// media types common in collectible asset sets; these do not depend on the
// host's mime.types tables.
var byExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".glb":  "model/gltf-binary",
	".gltf": "model/gltf+json",
	".html": "text/html",
	".json": "application/json",
}

// ContentType returns the MIME type for path, or "" when it cannot be told.
// The extension decides first; files without a known extension are sniffed.
func ContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := byExtension[ext]; ok {
		return ct
	}
	if ext != "" {
		if ct := bare(mime.TypeByExtension(ext)); ct != "" {
			return ct
		}
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil || mt.Is("application/octet-stream") {
		return ""
	}
	return bare(mt.String())
}

// bare drops parameters such as "; charset=utf-8".
func bare(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}
