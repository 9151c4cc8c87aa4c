package types

import "encoding/json"

// PublishParams is the input of the publish workflow and activity.
type PublishParams struct {
	Bucket        string `json:"bucket"`
	ImagePath     string `json:"image_path"`               // local to the worker
	AnimationPath string `json:"animation_path,omitempty"` // empty when there is no animation
	// Either Manifest (inline JSON) or ManifestURI (path, file:// or s3://) must be set.
	// Manifest wins when both are present.
	ManifestURI string          `json:"manifest_uri,omitempty"`
	Manifest    json.RawMessage `json:"manifest,omitempty"`
}

// UploadOutcome reports a single object write. URL is set even when Error is not.
type UploadOutcome struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// PublishResult is the serializable summary of a published asset set.
type PublishResult struct {
	MetadataURL  string          `json:"metadata"`
	ImageURL     string          `json:"image"`
	AnimationURL string          `json:"animation,omitempty"`
	Objects      []UploadOutcome `json:"objects"`
	Failed       int             `json:"failed"` // objects whose store request failed
}
