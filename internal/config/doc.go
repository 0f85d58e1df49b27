// Package config manages user-level settings stored at ~/.qspin-shim/config.yaml.
// Every key can also be set through a QSPIN_SHIM_-prefixed environment
// variable. Keys cover where qspin is installed, which release is fetched and
// how the download behaves; Validate checks a config file against the
// embedded JSON schema.
package config
