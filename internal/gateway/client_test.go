package gateway

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietClient(t *testing.T, base string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard, "", 0))}, opts...)
	c, err := New(base, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsMissingOrRelativeBase(t *testing.T) {
	t.Parallel()

	_, err := New("")
	require.Error(t, err)
	_, err = New("192.168.1.20/api")
	require.Error(t, err)
	_, err = New("ftp://example.com")
	require.Error(t, err)

	c, err := New("http://example.com/base/")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/base", c.BaseURL())
}

func TestGetParsesShapes(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"/arr":    `[{"id":1},{"id":2}]`,
		"/obj":    ` {"id":3} `,
		"/str":    `"oops"`,
		"/null":   `null`,
		"/broken": `<html>Fatal error</html>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, bodies[r.URL.Path])
	}))
	t.Cleanup(srv.Close)
	c := quietClient(t, srv.URL)
	ctx := context.Background()

	p, err := c.Get(ctx, "/arr")
	require.NoError(t, err)
	require.Equal(t, ShapeArray, p.Shape)
	require.Len(t, p.Elements(), 2)
	require.Len(t, p.Items(), 2)

	p, err = c.Get(ctx, "obj")
	require.NoError(t, err)
	require.Equal(t, ShapeObject, p.Shape)
	require.Nil(t, p.Elements())
	require.Len(t, p.Items(), 1)

	p, err = c.Get(ctx, "/str")
	require.NoError(t, err)
	require.Equal(t, ShapeScalar, p.Shape)
	require.Empty(t, p.Items())

	p, err = c.Get(ctx, "/null")
	require.NoError(t, err)
	require.Equal(t, ShapeNull, p.Shape)

	_, err = c.Get(ctx, "/broken")
	require.ErrorIs(t, err, ErrInvalidResponse)
	gwErr, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, "<html>Fatal error</html>", gwErr.Raw)

	_, err = c.Get(ctx, "/empty")
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestPathJoinKeepsBasePathAndQuery(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RequestURI()
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	c := quietClient(t, srv.URL+"/backend/")
	_, err := c.Get(context.Background(), "/getProjects.php?id=12")
	require.NoError(t, err)
	require.Equal(t, "/backend/getProjects.php?id=12", got)
}

func TestNonOKStatusReturnsPayloadAndStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"success":false,"message":"Duplicate title"}`)
	}))
	t.Cleanup(srv.Close)

	c := quietClient(t, srv.URL)
	p, err := c.PostJSON(context.Background(), "/add_project.php", map[string]string{"title": "x"})
	require.ErrorIs(t, err, ErrStatus)
	require.Equal(t, http.StatusConflict, p.Status)
	require.Equal(t, ShapeObject, p.Shape)
	require.False(t, p.OK())
}

func TestNetworkFailuresAreTyped(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := quietClient(t, "http://"+addr)
	_, err = c.Get(context.Background(), "/api/getProjects.php")
	require.ErrorIs(t, err, ErrNetworkUnreachable)
	require.False(t, errors.Is(err, ErrInvalidResponse))
}

func TestTimeoutMapsToNetworkUnreachable(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := quietClient(t, srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Get(context.Background(), "/slow")
	require.ErrorIs(t, err, ErrNetworkUnreachable)
}

func TestPostMultipartSendsFieldsAndFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	img := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Well", r.FormValue("title"))
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "cover.png", hdr.Filename)
		require.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	t.Cleanup(srv.Close)

	file, err := FileFromPath("image", img)
	require.NoError(t, err)
	c := quietClient(t, srv.URL)
	p, err := c.PostMultipart(context.Background(), "/add_project.php", MultipartBody{
		Fields: []Field{{Name: "title", Value: "Well"}},
		Files:  []File{file},
	})
	require.NoError(t, err)
	require.True(t, p.OK())
}

func TestUnsupportedMethodIsRejectedWithoutCall(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	t.Cleanup(srv.Close)

	c := quietClient(t, srv.URL)
	_, err := c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/x"})
	require.ErrorIs(t, err, ErrRequest)
	require.False(t, errors.Is(err, ErrNetworkUnreachable))

	_, err = c.Get(context.Background(), "http://elsewhere.example.com/x")
	require.ErrorIs(t, err, ErrRequest)

	_, err = c.PostJSON(context.Background(), "/x", func() {})
	require.ErrorIs(t, err, ErrRequest)
	require.Zero(t, calls)
}
