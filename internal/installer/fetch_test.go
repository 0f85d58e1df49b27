package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(n int) []byte {
	return bytes.Repeat([]byte("qspin-binary-"), n)
}

// redirectServer answers /hop/<n> with a redirect to /hop/<n+1> until n
// reaches hops, then serves body.
func redirectServer(t *testing.T, hops, code int, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if n < hops {
			http.Redirect(w, r, fmt.Sprintf("/hop/%d", n+1), code)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_FollowsRedirects(t *testing.T) {
	body := payload(4096)

	for _, code := range []int{http.StatusFound, http.StatusMovedPermanently} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			server := redirectServer(t, 3, code, body)
			in := New("test", WithHTTPClient(server.Client()))

			dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
			require.NoError(t, in.Fetch(context.Background(), server.URL+"/hop/0", dest))

			got, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(body, got), "downloaded bytes differ from served body")
		})
	}
}

func TestFetch_TooManyRedirects(t *testing.T) {
	server := redirectServer(t, 100, http.StatusFound, []byte("never"))
	in := New("test", WithHTTPClient(server.Client()), WithMaxRedirects(2))

	dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
	err := in.Fetch(context.Background(), server.URL+"/hop/0", dest)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.True(t, errors.Is(err, errTooManyRedirects))
	assert.NoFileExists(t, dest)
}

func TestFetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	in := New("test", WithHTTPClient(server.Client()))

	dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
	err := in.Fetch(context.Background(), server.URL+"/missing.tar.gz", dest)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "404 Not Found", httpErr.Status)
	assert.Contains(t, err.Error(), "404")
	assert.NoFileExists(t, dest)
}

func TestFetch_UnhandledRedirectStatus(t *testing.T) {
	server := redirectServer(t, 1, http.StatusTemporaryRedirect, []byte("body"))
	in := New("test", WithHTTPClient(server.Client()))

	dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
	err := in.Fetch(context.Background(), server.URL+"/hop/0", dest)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTemporaryRedirect, httpErr.StatusCode)
	assert.NoFileExists(t, dest)
}

func TestFetch_RedirectWithoutLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()
	in := New("test", WithHTTPClient(server.Client()))

	err := in.Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "a"))
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusFound, httpErr.StatusCode)
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	in := New("test")
	dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
	err := in.Fetch(context.Background(), url+"/qspin.tar.gz", dest)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Zero(t, httpErr.StatusCode)
	assert.NoFileExists(t, dest)
}

// fullDisk accepts limit bytes, then fails every write.
type fullDisk struct {
	f     *os.File
	limit int
}

var errDiskFull = errors.New("no space left on device")

func (d *fullDisk) Write(p []byte) (int, error) {
	if d.limit <= 0 {
		return 0, errDiskFull
	}
	n := len(p)
	if n > d.limit {
		n = d.limit
	}
	d.limit -= n
	if _, err := d.f.Write(p[:n]); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, errDiskFull
	}
	return n, nil
}

func (d *fullDisk) Close() error { return d.f.Close() }

func TestFetch_WriteFailureRemovesPartialFile(t *testing.T) {
	body := payload(8192)
	server := newArchiveServer(t, "/qspin.tar.gz", body)

	in := New("test", WithHTTPClient(server.Client()))
	in.createFile = func(path string) (io.WriteCloser, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return &fullDisk{f: f, limit: 1024}, nil
	}

	dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
	err := in.Fetch(context.Background(), server.URL+"/qspin.tar.gz", dest)
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
	assert.True(t, errors.Is(err, errDiskFull))
	assert.NoFileExists(t, dest)
}

func TestFetch_CreateFailure(t *testing.T) {
	server := newArchiveServer(t, "/qspin.tar.gz", []byte("data"))
	in := New("test", WithHTTPClient(server.Client()))

	dest := filepath.Join(t.TempDir(), "no-such-dir", "qspin.tar.gz")
	err := in.Fetch(context.Background(), server.URL+"/qspin.tar.gz", dest)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create", ioErr.Op)
}

func TestFetch_ProgressOutput(t *testing.T) {
	body := payload(1024)
	server := newArchiveServer(t, "/qspin.tar.gz", body)

	var out bytes.Buffer
	in := New("test", WithHTTPClient(server.Client()), WithOutput(&out))

	dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
	require.NoError(t, in.Fetch(context.Background(), server.URL+"/qspin.tar.gz", dest))
	assert.Contains(t, out.String(), "Downloading... 100%")
}

func TestFetch_ProgressOutputUnknownSize(t *testing.T) {
	body := payload(1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flushing before the body forces a chunked response.
		w.(http.Flusher).Flush()
		w.Write(body)
	}))
	t.Cleanup(server.Close)

	var out bytes.Buffer
	in := New("test", WithHTTPClient(server.Client()), WithOutput(&out))

	dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
	require.NoError(t, in.Fetch(context.Background(), server.URL, dest))
	assert.Contains(t, out.String(), fmt.Sprintf("Downloading... %d KB", len(body)/1024))
	assert.NotContains(t, out.String(), "%")
}

func TestFetch_UserAgent(t *testing.T) {
	var ua string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	in := New("1.2.3", WithHTTPClient(server.Client()))
	require.NoError(t, in.Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "a")))
	assert.Equal(t, "qspin-shim/1.2.3", ua)
}

func TestFetch_ContextCancelled(t *testing.T) {
	server := newArchiveServer(t, "/qspin.tar.gz", []byte("data"))
	in := New("test", WithHTTPClient(server.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "qspin.tar.gz")
	err := in.Fetch(ctx, server.URL+"/qspin.tar.gz", dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoFileExists(t, dest)
}
