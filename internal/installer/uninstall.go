package installer

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// UninstallReport lists what Uninstall removed and what it could not.
type UninstallReport struct {
	Removed  []string
	Warnings []error
}

// Uninstall deletes bin/ and dist/ recursively. Missing directories are
// skipped and deletion failures become warnings; it never fails.
func Uninstall(layout Layout, logger zerolog.Logger) UninstallReport {
	var report UninstallReport
	for _, dir := range []string{layout.BinDir, layout.DistDir} {
		if _, err := os.Lstat(dir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				report.Warnings = append(report.Warnings, &IOError{Op: "stat", Path: dir, Err: err})
			}
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn().Err(err).Str("method", "Uninstall").Str("path", dir).Msg("could not remove directory")
			report.Warnings = append(report.Warnings, &IOError{Op: "remove", Path: dir, Err: err})
			continue
		}
		report.Removed = append(report.Removed, dir)
	}
	return report
}
