//go:build !adaptivecache_debug

// Package assert gates internal invariant checks behind the
// adaptivecache_debug build tag. Release builds compile them away.
package assert

// Enabled reports whether invariant checks run after every engine operation.
const Enabled = false

// NoError is a no-op outside adaptivecache_debug builds.
func NoError(error) {}
