package policy

import (
	"fmt"
	"math"
)

type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidCapacity is returned by store and engine constructors.
const ErrInvalidCapacity = constError("invalid capacity")

// MinimumCapacity is the smallest capacity a store accepts.
const MinimumCapacity = 1

// MaximumCapacity is the largest capacity a store accepts; node handles
// are int32.
const MaximumCapacity = math.MaxInt32

// PreallocLimit bounds the nodes and index slots reserved up front.
// Stores larger than this grow on demand.
const PreallocLimit = 1 << 10

// CheckCapacity returns a wrapped ErrInvalidCapacity if capacity is out of
// [MinimumCapacity, MaximumCapacity].
func CheckCapacity(capacity int) error {
	if capacity < MinimumCapacity {
		return fmt.Errorf("%w: must be >=%d but %d was requested",
			ErrInvalidCapacity, MinimumCapacity, capacity)
	}
	if capacity > MaximumCapacity {
		return fmt.Errorf("%w: must be <=%d but %d was requested",
			ErrInvalidCapacity, MaximumCapacity, capacity)
	}
	return nil
}
