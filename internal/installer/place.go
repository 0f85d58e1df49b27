package installer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quickspin-saas/qspin-shim/internal/platform"
	"github.com/quickspin-saas/qspin-shim/internal/release"
)

// Place moves the extracted binary from dist/ to bin/ and makes it
// executable. A binary already in bin/ is moved aside first and restored if
// the move or chmod fails, so bin/ is either updated or unchanged.
func (in *Installer) Place(layout Layout, p platform.Spec) (string, error) {
	if err := layout.EnsureDirs(); err != nil {
		return "", err
	}

	name := release.BinaryName(p)
	src := filepath.Join(layout.DistDir, name)
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &BinaryNotFoundError{Path: src}
		}
		return "", &IOError{Op: "stat", Path: src, Err: err}
	}

	dst := filepath.Join(layout.BinDir, name)
	backup := ""
	if _, err := os.Lstat(dst); err == nil {
		backup = dst + ".backup"
		if err := moveFile(dst, backup); err != nil {
			return "", &IOError{Op: "backup", Path: dst, Err: err}
		}
	}

	if err := moveFile(src, dst); err != nil {
		in.rollback(backup, dst)
		return "", &IOError{Op: "move", Path: dst, Err: err}
	}

	if err := platform.MakeExecutable(dst, p); err != nil {
		in.rollback(backup, dst)
		return "", &IOError{Op: "chmod", Path: dst, Err: err}
	}

	if backup != "" {
		os.Remove(backup)
	}

	in.logger.Debug().Str("method", "Place").Str("path", dst).Msg("binary installed")
	return dst, nil
}

// rollback puts bin/ back the way Place found it: the backup is restored, or
// the half-installed binary removed when there was nothing before.
func (in *Installer) rollback(backup, dst string) {
	if backup == "" {
		os.Remove(dst)
		return
	}
	if err := RollbackBinary(backup, dst); err != nil {
		in.logger.Warn().Err(err).Str("method", "Place").Str("backup", backup).Msg("could not restore previous binary")
	}
}

// RollbackBinary restores the backup to the current path.
func RollbackBinary(backupPath, currentPath string) error {
	// Windows refuses to rename over an existing file.
	os.Remove(currentPath)
	return moveFile(backupPath, currentPath)
}

// moveFile renames src to dst, falling back to copy-and-delete when the two
// sit on different filesystems. If the copy fails too, the rename error is
// what gets reported.
func moveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("%w (copy fallback: %v)", renameErr, err)
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
