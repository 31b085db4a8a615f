//go:build adaptivecache_debug

package assert

// Enabled reports whether invariant checks run after every engine operation.
const Enabled = true

// NoError panics if err is non-nil.
func NoError(err error) {
	if err != nil {
		panic("adaptivecache: invariant violated: " + err.Error())
	}
}
