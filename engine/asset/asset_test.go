package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func awaitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestFetchBufferFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.bin"), []byte{1, 2, 3}, 0o644))
	f := NewFetcher(WithWorkers(2), WithBaseDir(dir))
	ctx := awaitCtx(t)

	data, err := f.FetchBuffer(ctx, "data.bin").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	data, err = f.FetchBuffer(ctx, "file://"+filepath.ToSlash(filepath.Join(dir, "data.bin"))).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = f.FetchBuffer(ctx, "missing.bin").Await(ctx)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetchImageOverHTTP(t *testing.T) {
	body := pngBytes(t, 4, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tex.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(WithHTTPClient(srv.Client()))
	ctx := awaitCtx(t)

	img, err := f.FetchImage(ctx, srv.URL+"/tex.png").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())

	_, err = f.FetchImage(ctx, srv.URL+"/missing.png").Await(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchDataURI(t *testing.T) {
	f := NewFetcher()
	ctx := awaitCtx(t)

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 1, 1))
	img, err := f.FetchImage(ctx, uri).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())

	data, err := f.FetchBuffer(ctx, "data:text/plain,hello%20world").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestFetchImageRejectsGarbage(t *testing.T) {
	f := NewFetcher()
	ctx := awaitCtx(t)
	_, err := f.FetchImage(ctx, "data:application/octet-stream;base64,AAAA").Await(ctx)
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestUnsupportedScheme(t *testing.T) {
	f := NewFetcher()
	ctx := awaitCtx(t)
	_, err := f.FetchBuffer(ctx, "ftp://example.com/a.bin").Await(ctx)
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestFutureAwaitHonorsContext(t *testing.T) {
	fut := newFuture[int]()
	assert.False(t, fut.Ready())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fut.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	fut.resolve(7, nil)
	fut.resolve(8, nil)
	assert.True(t, fut.Ready())
	v, err := fut.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = Resolved(3, nil).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestParseURI(t *testing.T) {
	src, err := parseURI("textures/a.png", "/assets")
	require.NoError(t, err)
	assert.Equal(t, sourceFile, src.kind)
	assert.Equal(t, filepath.Join("/assets", "textures/a.png"), src.path)

	src, err = parseURI("HTTPS://host/a.png", "")
	require.NoError(t, err)
	assert.Equal(t, sourceHTTP, src.kind)

	_, _, err = decodeDataURI("data:nocomma")
	assert.Error(t, err)
}
