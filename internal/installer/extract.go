package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quickspin-saas/qspin-shim/internal/platform"
)

// Extract unpacks every entry of archivePath into destDir, overwriting files
// of the same name. The format is chosen from p alone: zip for Windows,
// gzip-compressed tar otherwise. Failures are reported as *ExtractError and
// whatever was already written stays on disk.
func Extract(archivePath string, p platform.Spec, destDir string) error {
	var err error
	if p.IsWindows() {
		err = extractZip(archivePath, destDir)
	} else {
		err = extractTarGz(archivePath, destDir)
	}
	if err != nil {
		return &ExtractError{Archive: archivePath, Err: err}
	}
	return nil
}

func extractTarGz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	root, err := newExtractRoot(destDir)
	if err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		target, parent, err := root.resolve(hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := writeEntry(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			// The link target is relative to where the link really lands,
			// which may differ from its archive name when a parent is itself
			// a link.
			if filepath.IsAbs(hdr.Linkname) || !root.contains(filepath.Join(parent, hdr.Linkname)) {
				return fmt.Errorf("illegal symlink target %s -> %s", hdr.Name, hdr.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating parent dir for %s: %w", target, err)
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s: %w", target, err)
			}

		default:
			return fmt.Errorf("unsupported entry type %q for %s", hdr.Typeflag, hdr.Name)
		}
	}
}

func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	defer r.Close()

	root, err := newExtractRoot(destDir)
	if err != nil {
		return err
	}

	for _, f := range r.File {
		target, _, err := root.resolve(f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening zip entry %s: %w", f.Name, err)
		}
		err = writeEntry(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extractRoot is the destination directory of an extraction, both as given
// and with symlinks resolved.
type extractRoot struct {
	clean    string
	resolved string
}

func newExtractRoot(destDir string) (*extractRoot, error) {
	clean := filepath.Clean(destDir)
	if err := os.MkdirAll(clean, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", clean, err)
	}
	resolved, err := filepath.EvalSymlinks(clean)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", clean, err)
	}
	return &extractRoot{clean: clean, resolved: resolved}, nil
}

// contains reports whether the resolved path p lies inside the root.
func (r *extractRoot) contains(p string) bool {
	p = filepath.Clean(p)
	return p == r.resolved || strings.HasPrefix(p, r.resolved+string(os.PathSeparator))
}

// resolve joins name onto the root and returns it together with the real
// location of its parent directory. Names that escape the root, lexically
// or through a symlink already on disk, are rejected.
func (r *extractRoot) resolve(name string) (target, parent string, err error) {
	target = filepath.Join(r.clean, name)
	if target != r.clean && !strings.HasPrefix(target, r.clean+string(os.PathSeparator)) {
		return "", "", fmt.Errorf("illegal file path: %s", name)
	}
	parent, err = realDir(filepath.Dir(target))
	if err != nil {
		return "", "", fmt.Errorf("resolving parent of %s: %w", name, err)
	}
	if !r.contains(parent) {
		return "", "", fmt.Errorf("illegal file path: %s escapes through a symlink", name)
	}
	return target, parent, nil
}

// realDir resolves symlinks in dir. Trailing components that do not exist
// yet are kept as they are; MkdirAll will create them as plain directories.
func realDir(dir string) (string, error) {
	var missing []string
	cur := dir
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		next := filepath.Dir(cur)
		if next == cur {
			return "", err
		}
		missing = append(missing, filepath.Base(cur))
		cur = next
	}
}

func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if mode == 0 {
		mode = 0644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating parent dir for %s: %w", target, err)
	}
	// Replace a link of the same name instead of writing through it.
	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("replacing symlink %s: %w", target, err)
		}
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing file %s: %w", target, err)
	}
	return out.Close()
}
