package installer

import (
	"os"
	"path/filepath"

	"github.com/quickspin-saas/qspin-shim/internal/branding"
	"github.com/quickspin-saas/qspin-shim/internal/platform"
	"github.com/quickspin-saas/qspin-shim/internal/release"
)

// Layout is the on-disk staging area: <root>/bin holds the installed binary,
// <root>/dist the downloaded archive and its extracted contents.
type Layout struct {
	Root    string
	BinDir  string
	DistDir string
}

// NewLayout returns the layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{
		Root:    root,
		BinDir:  filepath.Join(root, "bin"),
		DistDir: filepath.Join(root, "dist"),
	}
}

// EnsureDirs creates bin/ and dist/. Existing directories are not an error.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.BinDir, l.DistDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}

// BinaryPath is where the installed binary lives for platform p.
func (l Layout) BinaryPath(p platform.Spec) string {
	return filepath.Join(l.BinDir, release.BinaryName(p))
}

// ArchivePath is where the downloaded archive is written.
func (l Layout) ArchivePath(ext string) string {
	return filepath.Join(l.DistDir, branding.BinaryName()+"."+ext)
}
