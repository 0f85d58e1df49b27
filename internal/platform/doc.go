// Package platform maps the running host onto the release-asset naming
// convention (darwin/linux/windows on x86_64/arm64) and wraps the few
// filesystem calls whose behaviour differs on Windows.
package platform
