package installer

import (
	"context"
	"os"

	"github.com/quickspin-saas/qspin-shim/internal/release"
)

// Result describes a completed installation.
type Result struct {
	Target     release.Target
	URL        string
	BinaryPath string
}

// Install runs the whole pipeline for target into layout: create the staging
// directories, download the archive into dist/, extract it there, place the
// binary in bin/ and delete the archive. The first failing step aborts the
// rest. On extraction or placement failure the archive is kept for
// inspection.
func (in *Installer) Install(ctx context.Context, target release.Target, layout Layout) (*Result, error) {
	if err := layout.EnsureDirs(); err != nil {
		return nil, err
	}

	url := target.URL()
	if in.mirror != "" {
		url = target.MirrorURL(in.mirror)
	}
	archivePath := layout.ArchivePath(target.Ext())

	log := in.logger.With().Str("method", "Install").Str("version", target.Version).Str("platform", target.Platform.String()).Logger()
	log.Info().Str("download_url", url).Msg("downloading release archive")

	in.printf("Downloading %s...\n", url)
	if err := in.Fetch(ctx, url, archivePath); err != nil {
		return nil, err
	}

	in.printf("Extracting archive...\n")
	if err := Extract(archivePath, target.Platform, layout.DistDir); err != nil {
		return nil, err
	}

	binPath, err := in.Place(layout, target.Platform)
	if err != nil {
		return nil, err
	}

	if err := os.Remove(archivePath); err != nil {
		return nil, &IOError{Op: "remove", Path: archivePath, Err: err}
	}

	log.Info().Str("path", binPath).Msg("installation complete")
	return &Result{Target: target, URL: url, BinaryPath: binPath}, nil
}
