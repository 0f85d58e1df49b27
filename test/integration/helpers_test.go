//go:build integration

package integration_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/quickspin-saas/qspin-shim/internal/installer"
	"github.com/quickspin-saas/qspin-shim/internal/platform"
	"github.com/quickspin-saas/qspin-shim/internal/release"
)

const testRepo = "QuickSpin-Saas/quick-spin-cli"

// testEnv holds an isolated install root and the host platform.
type testEnv struct {
	Root     string
	Layout   installer.Layout
	Platform platform.Spec
}

// setupTestEnv creates a temp install root and points HOME at a temp dir so
// nothing touches the real user environment. Shell-script binaries stand in
// for qspin, so Windows is skipped.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("integration tests use shell-script binaries")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GITHUB_TOKEN", "")

	p, err := platform.Host()
	if err != nil {
		t.Skipf("host platform not supported: %v", err)
	}

	root := filepath.Join(t.TempDir(), "qspin")
	return &testEnv{Root: root, Layout: installer.NewLayout(root), Platform: p}
}

// fakeQspin is a qspin stand-in: "version" prints the version, "fail" exits
// with the given code, anything else echoes its arguments.
func fakeQspin(version string) string {
	return `#!/bin/sh
case "$1" in
  version) echo "qspin version ` + version + `" ;;
  fail) exit "$2" ;;
  *) echo "args:$*" ;;
esac
`
}

// buildTarGz packs name=content pairs into a tar.gz archive.
func buildTarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0755, Size: int64(len(content)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("writing tar header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("writing tar body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}
	return buf.Bytes()
}

// releaseServer serves archives keyed by version the way the release host
// does: the download URL redirects to a storage URL that returns the bytes.
func releaseServer(t *testing.T, p platform.Spec, archives map[string][]byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for version, data := range archives {
		target, err := release.New("http://unused", testRepo, version, p)
		if err != nil {
			t.Fatalf("building target: %v", err)
		}
		objectPath := "/objects/" + target.ArchiveName()
		mux.HandleFunc("/"+testRepo+"/releases/download/"+target.Tag()+"/"+target.ArchiveName(), func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, objectPath, http.StatusFound)
		})
		mux.HandleFunc(objectPath, func(w http.ResponseWriter, r *http.Request) {
			w.Write(data)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// installVersion installs version from srv into env.
func installVersion(t *testing.T, env *testEnv, srv *httptest.Server, version string) (*installer.Result, error) {
	t.Helper()
	target, err := release.New(srv.URL, testRepo, version, env.Platform)
	if err != nil {
		t.Fatalf("building target: %v", err)
	}
	return installer.New("test").Install(t.Context(), target, env.Layout)
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
