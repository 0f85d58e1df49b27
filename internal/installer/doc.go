// Package installer downloads a qspin release archive, unpacks it into the
// staging directory and places the binary under <root>/bin. It also owns the
// inverse operation, Uninstall.
//
// The pipeline is strictly sequential: Fetch, Extract, Place, then removal of
// the archive. Each step returns one of the typed errors in errors.go and
// aborts the remainder. Nothing is retried and, apart from the final
// placement step, nothing is rolled back; re-running Install is the recovery
// path.
package installer
