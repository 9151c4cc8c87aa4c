package publish

import (
	"errors"

	"github.com/yourorg/asset-publish/internal/types"
)

// Result is the outcome of one store request. URL is derived from bucket and
// key and is always set; Err is non-nil when the store request failed, in
// which case URL may not resolve.
type Result struct {
	Key string
	URL string
	Err error
}

func (r Result) OK() bool { return r.Err == nil }

// Published holds the three uploads of an asset set and the manifest body
// that was sent as the metadata object.
type Published struct {
	Metadata  Result
	Image     Result
	Animation *Result // nil when no animation was supplied
	Manifest  []byte
}

// URLs returns the metadata, image and animation URLs; animation is "" when absent.
func (p *Published) URLs() (metadata, image, animation string) {
	if p.Animation != nil {
		animation = p.Animation.URL
	}
	return p.Metadata.URL, p.Image.URL, animation
}

func (p *Published) results() []Result {
	rs := []Result{p.Image}
	if p.Animation != nil {
		rs = append(rs, *p.Animation)
	}
	return append(rs, p.Metadata)
}

// Err joins the store failures, or returns nil when every upload succeeded.
func (p *Published) Err() error {
	var errs []error
	for _, r := range p.results() {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Summary converts p into the serializable result used by the CLI and workflow.
func (p *Published) Summary() types.PublishResult {
	var out types.PublishResult
	out.MetadataURL, out.ImageURL, out.AnimationURL = p.URLs()
	for _, r := range p.results() {
		o := types.UploadOutcome{Key: r.Key, URL: r.URL}
		if r.Err != nil {
			o.Error = r.Err.Error()
			out.Failed++
		}
		out.Objects = append(out.Objects, o)
	}
	return out
}
