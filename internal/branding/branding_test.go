package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "qspin-shim" {
		t.Errorf("CLIName() = %q, want %q", got, "qspin-shim")
	}
	if got := BinaryName(); got != "qspin" {
		t.Errorf("BinaryName() = %q, want %q", got, "qspin")
	}
	if got := GitHubRepo(); got != "QuickSpin-Saas/quick-spin-cli" {
		t.Errorf("GitHubRepo() = %q", got)
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("mirror"); got != "QSPIN_SHIM_MIRROR" {
		t.Errorf("EnvVar(mirror) = %q, want QSPIN_SHIM_MIRROR", got)
	}
}
