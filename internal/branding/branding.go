// Package branding provides compile-time identity values for the shim.
//
// branding.yaml is baked into the binary with //go:embed. Forks that publish
// qspin from a different repository or release host only edit that file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
	BinaryName  string `yaml:"binary_name"`
	ReleaseURL  string `yaml:"release_url"`
	APIURL      string `yaml:"api_url"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "qspin-shim",
			DisplayName: "QuickSpin CLI",
			Description: "Installer and launcher for the QuickSpin CLI",
			HomeDir:     ".qspin-shim",
			EnvPrefix:   "QSPIN_SHIM",
			GoModule:    "github.com/quickspin-saas/qspin-shim",
			GitHubRepo:  "QuickSpin-Saas/quick-spin-cli",
			BinaryName:  "qspin",
			ReleaseURL:  "https://github.com",
			APIURL:      "https://api.github.com",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "qspin-shim").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "QuickSpin CLI").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".qspin-shim").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "QSPIN_SHIM").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path, reported by `version --json`.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string releases are published under.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// BinaryName returns the installed binary's base name without extension.
func BinaryName() string { load(); return defaults.BinaryName }

// ReleaseURL returns the release host base URL (e.g., "https://github.com").
func ReleaseURL() string { load(); return defaults.ReleaseURL }

// APIURL returns the releases API base URL used for "latest" lookups.
func APIURL() string { load(); return defaults.APIURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("MIRROR") → "QSPIN_SHIM_MIRROR".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
