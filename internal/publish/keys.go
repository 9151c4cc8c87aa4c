package publish

import (
	"path/filepath"
	"strings"
)

const mediaPrefix = "assets/"

// MediaKey is the storage key for a media file: assets/<basename>.
func MediaKey(path string) string {
	return mediaPrefix + filepath.Base(path)
}

// MetadataKey is imagePath with its extension replaced by ".json". A name
// whose only dot is the leading one (".png") has no extension.
func MetadataKey(imagePath string) string {
	ext := filepath.Ext(imagePath)
	if ext == filepath.Base(imagePath) {
		ext = ""
	}
	return filepath.ToSlash(strings.TrimSuffix(imagePath, ext)) + ".json"
}
