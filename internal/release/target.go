package release

import (
	"fmt"
	"strings"

	"github.com/quickspin-saas/qspin-shim/internal/branding"
	"github.com/quickspin-saas/qspin-shim/internal/platform"
)

// Archive extensions. Windows assets ship as zip, everything else as tar.gz.
const (
	ExtZip   = "zip"
	ExtTarGz = "tar.gz"
)

// Target identifies one release asset. It is a value type; once built by New
// it wholly determines every URL and file name below.
type Target struct {
	BaseURL  string
	Repo     string
	Version  string // normalised semver, no leading "v"
	Platform platform.Spec
}

// New validates its inputs and returns a Target. version may carry a leading
// "v". An empty baseURL selects the branded release host.
func New(baseURL, repo, version string, p platform.Spec) (Target, error) {
	if baseURL == "" {
		baseURL = branding.ReleaseURL()
	}
	if err := validateRepo(repo); err != nil {
		return Target{}, err
	}
	v, err := NormalizeVersion(version)
	if err != nil {
		return Target{}, err
	}
	return Target{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Repo:     repo,
		Version:  v,
		Platform: p,
	}, nil
}

// Ext returns the archive extension for the target platform.
func (t Target) Ext() string {
	return ArchiveExt(t.Platform)
}

// ArchiveExt is zip iff p is Windows.
func ArchiveExt(p platform.Spec) string {
	if p.IsWindows() {
		return ExtZip
	}
	return ExtTarGz
}

// ArchiveName returns the published asset name, e.g.
// qspin-1.2.3-linux-x86_64.tar.gz.
func (t Target) ArchiveName() string {
	return fmt.Sprintf("%s-%s-%s.%s", branding.BinaryName(), t.Version, t.Platform, t.Ext())
}

// BinaryName returns the file name of the executable inside the archive.
func (t Target) BinaryName() string {
	return BinaryName(t.Platform)
}

// BinaryName returns "qspin", or "qspin.exe" on Windows. It does not depend on
// the archive format.
func BinaryName(p platform.Spec) string {
	if p.IsWindows() {
		return branding.BinaryName() + ".exe"
	}
	return branding.BinaryName()
}

// Tag returns the git tag the release is published under.
func (t Target) Tag() string {
	return "v" + t.Version
}

// URL returns the direct download URL:
// <base>/<repo>/releases/download/v<version>/<archive>.
func (t Target) URL() string {
	return fmt.Sprintf("%s/%s/releases/download/%s/%s", t.BaseURL, t.Repo, t.Tag(), t.ArchiveName())
}

// MirrorURL returns the download URL on a mirror that hosts assets flat by
// name.
func (t Target) MirrorURL(mirror string) string {
	return strings.TrimRight(mirror, "/") + "/" + t.ArchiveName()
}

// ReleasePageURL returns the human-facing release page, used in manual
// installation instructions.
func (t Target) ReleasePageURL() string {
	return fmt.Sprintf("%s/%s/releases/tag/%s", t.BaseURL, t.Repo, t.Tag())
}

// ReleasesURL returns the release index of repo. It is the remediation link
// when no Target could be built.
func ReleasesURL(baseURL, repo string) string {
	if baseURL == "" {
		baseURL = branding.ReleaseURL()
	}
	return fmt.Sprintf("%s/%s/releases", strings.TrimRight(baseURL, "/"), repo)
}

func validateRepo(repo string) error {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid repository %q: expected owner/name", repo)
	}
	return nil
}
