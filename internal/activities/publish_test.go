package activities

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/yourorg/asset-publish/internal/manifest"
	"github.com/yourorg/asset-publish/internal/publish"
	"github.com/yourorg/asset-publish/internal/types"
)

type fakePublisher struct {
	calls    int
	manifest []byte
	pub      *publish.Published
	err      error
}

func (f *fakePublisher) PublishAssetSet(ctx context.Context, bucket, imagePath, animationPath string, manifestJSON []byte) (*publish.Published, error) {
	f.calls++
	f.manifest = manifestJSON
	return f.pub, f.err
}

func runActivity(t *testing.T, p Publisher, params types.PublishParams) (types.PublishResult, error) {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	a := New(p)
	env.RegisterActivity(a.PublishAssetSet)
	val, err := env.ExecuteActivity(a.PublishAssetSet, params)
	if err != nil {
		return types.PublishResult{}, err
	}
	var res types.PublishResult
	require.NoError(t, val.Get(&res))
	return res, nil
}

func requireAppErr(t *testing.T, err error, typ string) {
	t.Helper()
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr), "want application error, got %v", err)
	assert.Equal(t, typ, appErr.Type())
	assert.True(t, appErr.NonRetryable())
}

func TestPublishAssetSet_InlineManifest(t *testing.T) {
	f := &fakePublisher{pub: &publish.Published{
		Metadata: publish.Result{Key: "out/1.json", URL: "https://mybucket.s3.amazonaws.com/out/1.json"},
		Image:    publish.Result{Key: "assets/1.png", URL: "https://mybucket.s3.amazonaws.com/assets/1.png", Err: errors.New("denied")},
	}}
	res, err := runActivity(t, f, types.PublishParams{
		Bucket:    "mybucket",
		ImagePath: "out/1.png",
		Manifest:  []byte(`{"properties":{"files":[]}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
	assert.JSONEq(t, `{"properties":{"files":[]}}`, string(f.manifest))
	assert.Equal(t, "https://mybucket.s3.amazonaws.com/out/1.json", res.MetadataURL)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Objects, 2)
	assert.Equal(t, "denied", res.Objects[0].Error)
}

func TestPublishAssetSet_ManifestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"image":""}`), 0o644))
	f := &fakePublisher{pub: &publish.Published{}}
	_, err := runActivity(t, f, types.PublishParams{Bucket: "mybucket", ImagePath: "a.png", ManifestURI: path})
	require.NoError(t, err)
	assert.Equal(t, `{"image":""}`, string(f.manifest))
}

func TestPublishAssetSet_InputErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	cases := []struct {
		name   string
		params types.PublishParams
		pubErr error
		typ    string
	}{
		{"bad bucket", types.PublishParams{Bucket: "ab", Manifest: []byte(`{}`)}, nil, "InvalidBucket"},
		{"no manifest", types.PublishParams{Bucket: "mybucket"}, nil, "MissingManifest"},
		{"manifest not found", types.PublishParams{Bucket: "mybucket", ManifestURI: missing}, nil, "MissingManifest"},
		{"malformed", types.PublishParams{Bucket: "mybucket", Manifest: []byte(`{}`)}, fmt.Errorf("%w: no properties", manifest.ErrMalformed), "MalformedManifest"},
		{"missing media", types.PublishParams{Bucket: "mybucket", Manifest: []byte(`{}`)}, fmt.Errorf("open media: %w", fs.ErrNotExist), "MissingMedia"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runActivity(t, &fakePublisher{err: tc.pubErr}, tc.params)
			requireAppErr(t, err, tc.typ)
		})
	}
}

func TestPublishAssetSet_OtherErrorsRetry(t *testing.T) {
	_, err := runActivity(t, &fakePublisher{err: errors.New("disk on fire")}, types.PublishParams{
		Bucket:   "mybucket",
		Manifest: []byte(`{}`),
	})
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr), "want application error, got %v", err)
	assert.False(t, appErr.NonRetryable())
}
