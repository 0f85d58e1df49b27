// Package cli defines the Cobra command tree for qspin-shim. Each file in
// this package registers one top-level command (install, run, test, etc.)
// with the root command. Commands delegate to internal packages for the
// work and only handle flags, settings and user-facing output.
package cli
