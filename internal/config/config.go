package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/quickspin-saas/qspin-shim/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognised keys.
const (
	KeyInstallRoot  = "install_root"
	KeyVersion      = "version"
	KeyRepo         = "repo"
	KeyReleaseURL   = "release_url"
	KeyAPIURL       = "api_url"
	KeyMirror       = "mirror"
	KeyTimeout      = "timeout"
	KeyMaxRedirects = "max_redirects"
)

// Keys lists every recognised key in display order.
var Keys = []string{
	KeyInstallRoot,
	KeyVersion,
	KeyRepo,
	KeyReleaseURL,
	KeyAPIURL,
	KeyMirror,
	KeyTimeout,
	KeyMaxRedirects,
}

// Settings is the resolved configuration after defaults, file and
// environment have been merged.
type Settings struct {
	InstallRoot  string
	Version      string // empty means "use the build version"
	Repo         string
	ReleaseURL   string
	APIURL       string
	Mirror       string
	Timeout      time.Duration
	MaxRedirects int
}

// Dir returns the path to the config directory (~/.qspin-shim/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.qspin-shim/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// DefaultInstallRoot returns <XDG data home>/qspin.
func DefaultInstallRoot() string {
	return filepath.Join(xdg.DataHome, branding.BinaryName())
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyInstallRoot, DefaultInstallRoot())
	viper.SetDefault(KeyRepo, branding.GitHubRepo())
	viper.SetDefault(KeyReleaseURL, branding.ReleaseURL())
	viper.SetDefault(KeyAPIURL, branding.APIURL())
	viper.SetDefault(KeyTimeout, "5m")
	viper.SetDefault(KeyMaxRedirects, 5)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// IsKnown reports whether key is one of Keys.
func IsKnown(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Current resolves Settings from the loaded configuration.
func Current() (*Settings, error) {
	root, err := ExpandPath(viper.GetString(KeyInstallRoot))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", KeyInstallRoot, err)
	}

	timeout, err := time.ParseDuration(viper.GetString(KeyTimeout))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", KeyTimeout, err)
	}

	redirects, err := strconv.Atoi(viper.GetString(KeyMaxRedirects))
	if err != nil || redirects < 0 {
		return nil, fmt.Errorf("invalid %s %q: must be a non-negative integer", KeyMaxRedirects, viper.GetString(KeyMaxRedirects))
	}

	return &Settings{
		InstallRoot:  root,
		Version:      viper.GetString(KeyVersion),
		Repo:         viper.GetString(KeyRepo),
		ReleaseURL:   viper.GetString(KeyReleaseURL),
		APIURL:       viper.GetString(KeyAPIURL),
		Mirror:       viper.GetString(KeyMirror),
		Timeout:      timeout,
		MaxRedirects: redirects,
	}, nil
}

// ExpandPath expands a leading "~" and makes path absolute.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

// Set writes one key to the config file. Only keys already in the file and
// the one being set are written; defaults and environment overrides stay
// out of it.
func Set(key, value string) error {
	if !IsKnown(key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	var typed any = value
	if key == KeyMaxRedirects {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		typed = n
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	file.Set(key, typed)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// Keep the loaded configuration in step with the file.
	viper.Set(key, typed)
	return nil
}
