package platform

import (
	"fmt"
	"runtime"
)

// OS is an operating system name as used in release asset names.
type OS string

// Arch is a CPU architecture name as used in release asset names.
type Arch string

const (
	Darwin  OS = "darwin"
	Linux   OS = "linux"
	Windows OS = "windows"

	X86_64 Arch = "x86_64"
	ARM64  Arch = "arm64"
)

// Spec is a resolved, supported platform.
type Spec struct {
	OS   OS
	Arch Arch
}

// String returns "<os>-<arch>", the fragment used in asset names.
func (s Spec) String() string {
	return string(s.OS) + "-" + string(s.Arch)
}

// IsWindows reports whether s targets Windows.
func (s Spec) IsWindows() bool {
	return s.OS == Windows
}

// UnsupportedError is returned when a raw host value has no mapping.
// Both raw values are kept so the message names exactly what was seen.
type UnsupportedError struct {
	OS   string
	Arch string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("Unsupported platform: %s-%s. Supported: darwin/linux/windows on x64/arm64", e.OS, e.Arch)
}

// Resolve maps raw host identifiers to a Spec. It accepts Go's GOOS/GOARCH
// values plus the common aliases other toolchains report (win32, x64,
// x86_64, aarch64). Anything else fails; there is no best-guess fallback.
func Resolve(hostOS, hostArch string) (Spec, error) {
	goos, okOS := parseOS(hostOS)
	arch, okArch := parseArch(hostArch)
	if !okOS || !okArch {
		return Spec{}, &UnsupportedError{OS: hostOS, Arch: hostArch}
	}
	return Spec{OS: goos, Arch: arch}, nil
}

// Host resolves the platform this process is running on.
func Host() (Spec, error) {
	return Resolve(runtime.GOOS, runtime.GOARCH)
}

func parseOS(raw string) (OS, bool) {
	switch raw {
	case "darwin":
		return Darwin, true
	case "linux":
		return Linux, true
	case "windows", "win32":
		return Windows, true
	default:
		return "", false
	}
}

func parseArch(raw string) (Arch, bool) {
	switch raw {
	case "amd64", "x86_64", "x64":
		return X86_64, true
	case "arm64", "aarch64":
		return ARM64, true
	default:
		return "", false
	}
}

// Supported returns every supported platform in a stable order.
func Supported() []Spec {
	var specs []Spec
	for _, o := range []OS{Darwin, Linux, Windows} {
		for _, a := range []Arch{X86_64, ARM64} {
			specs = append(specs, Spec{OS: o, Arch: a})
		}
	}
	return specs
}
