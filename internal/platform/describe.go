package platform

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// HostInfo is a diagnostic snapshot of the host, shown by the platform
// command next to the resolved Spec.
type HostInfo struct {
	GOOS            string
	GOARCH          string
	KernelArch      string // e.g. "x86_64", "aarch64"; may differ from GOARCH under emulation
	KernelVersion   string
	Platform        string // distro or product ID, e.g. "ubuntu", "darwin"
	PlatformFamily  string
	PlatformVersion string
}

// Describe gathers host details through gopsutil. Detection failures are not
// fatal: the runtime values are always present and the rest stays empty,
// unless ctx itself was cancelled.
func Describe(ctx context.Context) (*HostInfo, error) {
	info := &HostInfo{
		GOOS:   runtime.GOOS,
		GOARCH: runtime.GOARCH,
	}

	stat, err := host.InfoWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return info, nil
	}

	info.KernelArch = stat.KernelArch
	info.KernelVersion = stat.KernelVersion
	info.Platform = strings.ToLower(strings.TrimSpace(stat.Platform))
	info.PlatformFamily = strings.ToLower(strings.TrimSpace(stat.PlatformFamily))
	info.PlatformVersion = strings.TrimSpace(stat.PlatformVersion)
	return info, nil
}

// Emulated reports whether the kernel architecture resolves to a different
// asset architecture than the running binary, as happens under Rosetta.
func (h *HostInfo) Emulated() bool {
	if h.KernelArch == "" {
		return false
	}
	kernel, ok := parseArch(h.KernelArch)
	if !ok {
		return false
	}
	self, ok := parseArch(h.GOARCH)
	return ok && kernel != self
}
