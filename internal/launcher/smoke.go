package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultSmokeTimeout bounds the version probe.
const DefaultSmokeTimeout = 5 * time.Second

// Smoke runs `binPath version` and returns its standard output. It fails if
// the binary cannot start, exits non-zero or outlives timeout.
func Smoke(ctx context.Context, binPath string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binPath, "version")
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return string(out), fmt.Errorf("%s version timed out after %s", binPath, timeout)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return string(out), fmt.Errorf("%s version: %w: %s", binPath, err, msg)
	}
	return string(out), fmt.Errorf("%s version: %w", binPath, err)
}
