package buffer

import (
	"sync"

	"github.com/c360/streamkit/errors"
)

// fullFlagBuffer resolves the full/empty ambiguity with an explicit boolean:
// storage holds exactly capacity slots, and head == tail means empty or full
// depending on the flag. The flag is updated in the same critical section as
// every index mutation that can change fullness; an index change without the
// matching flag update would break the buffer's invariants.
type fullFlagBuffer[T any] struct {
	mu     sync.RWMutex
	slots  []T // exactly the nominal capacity
	head   int // next write position
	tail   int // next read position
	isFull bool

	stats   *Statistics
	metrics *bufferMetrics
	opts    *bufferOptions[T]
}

func newFullFlagBuffer[T any](capacity int, opts *bufferOptions[T]) (*fullFlagBuffer[T], error) {
	var metrics *bufferMetrics
	if opts.metricsReg != nil {
		var err error
		metrics, err = newBufferMetrics(opts.metricsReg, opts.metricsPrefix, FullFlag)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Buffer", "New", "metrics registration")
		}
	}

	return &fullFlagBuffer[T]{
		slots:   make([]T, capacity),
		stats:   NewStatistics(),
		metrics: metrics,
		opts:    opts,
	}, nil
}

// next advances an index by one slot, wrapping at the storage length.
func (b *fullFlagBuffer[T]) next(idx int) int {
	return (idx + 1) % len(b.slots)
}

// full, empty and size assume the caller holds b.mu.
func (b *fullFlagBuffer[T]) full() bool { return b.isFull }

func (b *fullFlagBuffer[T]) empty() bool { return b.head == b.tail && !b.isFull }

func (b *fullFlagBuffer[T]) size() int {
	if b.isFull {
		return len(b.slots)
	}
	if b.head >= b.tail {
		return b.head - b.tail
	}
	// head is on the next lap around the storage
	return len(b.slots) + b.head - b.tail
}

// Write inserts item, discarding the oldest unread element if the buffer is
// full. The fullness flag is recomputed after both indices have settled.
func (b *fullFlagBuffer[T]) Write(item T) {
	dropped, overwrote := b.write(item)

	// The callback runs after the critical section so it may safely call
	// back into the buffer.
	if overwrote && b.opts.dropCallback != nil {
		b.opts.dropCallback(dropped)
	}
}

func (b *fullFlagBuffer[T]) write(item T) (dropped T, overwrote bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.full() {
		dropped = b.slots[b.tail]
		overwrote = true
		b.tail = b.next(b.tail)

		b.stats.Overflow()
		b.stats.Drop()
		if b.metrics != nil {
			b.metrics.recordOverflow()
			b.metrics.recordDrop()
		}
	}

	b.slots[b.head] = item
	b.head = b.next(b.head)
	b.isFull = b.head == b.tail

	b.stats.Write()
	b.stats.UpdateSize(int64(b.size()))
	if b.metrics != nil {
		b.metrics.recordWrite(b.size(), b.Capacity())
	}

	return dropped, overwrote
}

// Read removes and returns the oldest unread element in FIFO order.
// A read can never leave the buffer full, so the flag is always cleared.
func (b *fullFlagBuffer[T]) Read() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	if b.empty() {
		return zero, false
	}

	item := b.slots[b.tail]
	b.slots[b.tail] = zero // release the reference
	b.tail = b.next(b.tail)
	b.isFull = false

	b.stats.Read()
	b.stats.UpdateSize(int64(b.size()))
	if b.metrics != nil {
		b.metrics.recordRead(b.size(), b.Capacity())
	}

	return item, true
}

// Peek returns the oldest unread element without removing it.
func (b *fullFlagBuffer[T]) Peek() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var zero T
	if b.empty() {
		return zero, false
	}

	b.stats.Peek()
	if b.metrics != nil {
		b.metrics.recordPeek()
	}

	return b.slots[b.tail], true
}

// Size returns the current element count, computed from the indices and flag.
func (b *fullFlagBuffer[T]) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size()
}

// Capacity returns the nominal capacity. Immutable, so no lock needed.
func (b *fullFlagBuffer[T]) Capacity() int {
	return len(b.slots)
}

// IsFull reports whether the buffer holds Capacity() elements.
func (b *fullFlagBuffer[T]) IsFull() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.full()
}

// IsEmpty reports whether the buffer holds no elements.
func (b *fullFlagBuffer[T]) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.empty()
}

// Clear discards all contents in O(1). Storage is not zeroed; stale slots
// are overwritten by subsequent writes.
func (b *fullFlagBuffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tail = b.head
	b.isFull = false

	b.stats.UpdateSize(0)
	if b.metrics != nil {
		b.metrics.updateSize(0, b.Capacity())
	}
}

// Stats returns the buffer's statistics.
func (b *fullFlagBuffer[T]) Stats() *Statistics {
	return b.stats
}
