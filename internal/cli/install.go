package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/quickspin-saas/qspin-shim/internal/branding"
	"github.com/quickspin-saas/qspin-shim/internal/config"
	"github.com/quickspin-saas/qspin-shim/internal/installer"
	"github.com/quickspin-saas/qspin-shim/internal/launcher"
	"github.com/quickspin-saas/qspin-shim/internal/platform"
	"github.com/quickspin-saas/qspin-shim/internal/release"
	"github.com/spf13/cobra"
)

// latestVersion asks the releases API for the newest release.
const latestVersion = "latest"

var (
	installVersion string
	installOS      string
	installArch    string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download and install the qspin binary",
	Long: `Downloads the prebuilt qspin archive for this platform from the release host
(or a configured mirror), extracts it and places the binary in <install root>/bin.

The version defaults to the one this shim was built for; "latest" resolves
the newest published release.

  qspin-shim install
  qspin-shim install --version latest
  qspin-shim install --version 1.4.0 --os linux --arch arm64`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", `Version to install, or "latest"`)
	installCmd.Flags().StringVar(&installOS, "os", "", "Target OS instead of the host's (darwin, linux, windows)")
	installCmd.Flags().StringVar(&installArch, "arch", "", "Target architecture instead of the host's (x64, arm64)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	s, err := settings()
	if err != nil {
		return err
	}
	in := newInstaller(s, out)

	fmt.Fprintf(out, "Installing %s...\n", branding.DisplayName())

	target, err := resolveTarget(cmd.Context(), in, s)
	if err != nil {
		return installFailed(errOut, err, release.ReleasesURL(s.ReleaseURL, s.Repo))
	}
	logger.Debug().Str("method", "runInstall").Str("platform", target.Platform.String()).Str("version", target.Version).Msg("resolved target")

	layout := installer.NewLayout(s.InstallRoot)
	if change := versionChange(cmd.Context(), layout.BinaryPath(target.Platform), target); change != "" {
		fmt.Fprintln(out, change)
	}

	res, err := in.Install(cmd.Context(), target, layout)
	if err != nil {
		return installFailed(errOut, err, target.ReleasePageURL())
	}

	bin := branding.BinaryName()
	success.Fprintf(out, "✅ %s installed successfully!\n", branding.DisplayName())
	faint.Fprintf(out, "   %s\n", res.BinaryPath)
	fmt.Fprintf(out, "Run '%s --version' to verify installation.\n", bin)
	fmt.Fprintf(out, "Get started with '%s auth login'\n", bin)
	return nil
}

func newInstaller(s *config.Settings, out io.Writer) *installer.Installer {
	return installer.New(buildVersion,
		installer.WithMirror(s.Mirror),
		installer.WithAPIURL(s.APIURL),
		installer.WithTimeout(s.Timeout),
		installer.WithMaxRedirects(s.MaxRedirects),
		installer.WithOutput(out),
		installer.WithLogger(logger),
	)
}

// resolveTarget combines the platform and version choice into a Target.
func resolveTarget(ctx context.Context, in *installer.Installer, s *config.Settings) (release.Target, error) {
	p, err := platform.Resolve(orDefault(installOS, runtime.GOOS), orDefault(installArch, runtime.GOARCH))
	if err != nil {
		return release.Target{}, err
	}

	version, err := requestedVersion(ctx, in, s)
	if err != nil {
		return release.Target{}, err
	}
	return release.New(s.ReleaseURL, s.Repo, version, p)
}

// requestedVersion picks the --version flag, then the configured version,
// then the build version. Development builds have no release of their own
// and fall back to the latest one.
func requestedVersion(ctx context.Context, in *installer.Installer, s *config.Settings) (string, error) {
	v := orDefault(installVersion, s.Version)
	if v == "" {
		v = buildVersion
		if _, err := release.NormalizeVersion(v); err != nil {
			logger.Debug().Str("method", "requestedVersion").Str("build_version", v).Msg("build version is not a release, using latest")
			v = latestVersion
		}
	}
	if v != latestVersion {
		return v, nil
	}

	latest, err := in.LatestVersion(ctx, s.Repo)
	if err != nil {
		return "", fmt.Errorf("resolving latest version: %w", err)
	}
	return latest, nil
}

// versionChange describes how target relates to the binary already at
// binPath. It returns "" when nothing is installed or the installed binary
// cannot run here or report a version.
func versionChange(ctx context.Context, binPath string, target release.Target) string {
	host, err := platform.Host()
	if err != nil || host != target.Platform {
		return ""
	}
	if _, err := os.Stat(binPath); err != nil {
		return ""
	}

	log := logger.With().Str("method", "versionChange").Str("path", binPath).Logger()
	output, err := launcher.Smoke(ctx, binPath, launcher.DefaultSmokeTimeout)
	if err != nil {
		log.Debug().Err(err).Msg("installed binary did not report a version")
		return ""
	}
	installed, err := release.ParseVersionOutput(output)
	if err != nil {
		log.Debug().Err(err).Msg("unrecognised version output")
		return ""
	}
	cmp, err := release.CompareVersions(installed, target.Version)
	if err != nil {
		log.Debug().Err(err).Msg("comparing versions")
		return ""
	}

	bin := branding.BinaryName()
	switch {
	case cmp < 0:
		return fmt.Sprintf("Upgrading %s %s -> %s", bin, installed, target.Version)
	case cmp > 0:
		return fmt.Sprintf("Downgrading %s %s -> %s", bin, installed, target.Version)
	default:
		return fmt.Sprintf("Reinstalling %s %s", bin, installed)
	}
}

func installFailed(w io.Writer, err error, page string) error {
	logger.Debug().Err(err).Str("method", "runInstall").Msg("installation failed")
	failure.Fprintf(w, "❌ Installation failed: %v\n", err)
	fmt.Fprintln(w, "Please try manual installation:")
	fmt.Fprintf(w, "  Visit: %s\n", page)
	return &exitError{code: 1}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
