// Package release builds the deterministic download location of a qspin
// release asset from repository identity, version and resolved platform.
// Nothing here touches the network.
package release
