package buffer

import (
	"fmt"

	"github.com/c360/streamkit/errors"
)

// Buffer is a fixed-capacity, thread-safe circular buffer shared between
// concurrent producers and consumers. All methods are safe for concurrent
// use; every call is a single critical section on the buffer's internal lock.
//
// A Buffer never blocks in the data path: Write always succeeds immediately,
// overwriting the oldest unread element when the buffer is full, and Read
// returns (zero, false) immediately when the buffer is empty.
type Buffer[T any] interface {
	// Write inserts item at the current write position. If the buffer is
	// already full, the oldest unread element is discarded to make room.
	// Write always succeeds.
	Write(item T)

	// Read removes and returns the oldest unread element in FIFO order.
	// Returns the zero value and false if the buffer is empty.
	Read() (T, bool)

	// Peek returns the oldest unread element without removing it.
	// Returns the zero value and false if the buffer is empty.
	Peek() (T, bool)

	// Size returns the current element count, 0 <= Size() <= Capacity().
	Size() int

	// Capacity returns the maximum element count, fixed at construction.
	Capacity() int

	// IsFull reports whether the buffer holds Capacity() elements.
	IsFull() bool

	// IsEmpty reports whether the buffer holds no elements.
	IsEmpty() bool

	// Clear discards all contents in O(1) by resetting positions.
	// Storage is not zeroed; slots are reused by subsequent writes.
	Clear()

	// Stats returns the buffer's statistics (always collected).
	Stats() *Statistics
}

// Strategy selects how a buffer distinguishes "full" from "empty", since
// both states present identical read/write positions otherwise.
type Strategy int

const (
	// GuardSlot reserves one extra storage slot that is never occupied, so
	// full and empty can never collide in index space. Trades one slot of
	// memory for flag-free predicates.
	GuardSlot Strategy = iota

	// FullFlag uses exactly capacity slots plus an explicit boolean updated
	// in lockstep with every index mutation. Trades an extra field for the
	// reserved slot.
	FullFlag
)

// String returns a human-readable representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case GuardSlot:
		return "guard_slot"
	case FullFlag:
		return "full_flag"
	default:
		return "unknown"
	}
}

// DropCallback is called with each element discarded by an overwrite.
// It runs after the write's critical section has been released.
type DropCallback[T any] func(item T)

// New creates a buffer with the given capacity. The disambiguation strategy
// defaults to GuardSlot and can be selected with WithStrategy. Capacity is
// fixed for the buffer's lifetime; values below 1 are rejected.
// Returns an error if metrics registration fails when metrics are requested.
func New[T any](capacity int, options ...Option[T]) (Buffer[T], error) {
	if capacity < 1 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("capacity %d, must be at least 1", capacity),
			"Buffer", "New", "capacity validation")
	}

	opts := applyOptions(options...)

	switch opts.strategy {
	case FullFlag:
		return newFullFlagBuffer(capacity, opts)
	default:
		return newGuardSlotBuffer(capacity, opts)
	}
}
