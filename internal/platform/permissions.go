package platform

import (
	"os"
	"runtime"
)

// ExecutableMode is rwxr-xr-x, applied to the installed binary.
const ExecutableMode os.FileMode = 0755

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// MakeExecutable applies ExecutableMode to path unless target is a Windows
// platform, where the executable bit has no meaning.
func MakeExecutable(path string, target Spec) error {
	if target.IsWindows() {
		return nil
	}
	return Chmod(path, ExecutableMode)
}
