package buffer

import (
	"sync"

	"github.com/c360/streamkit/errors"
)

// guardSlotBuffer resolves the full/empty ambiguity structurally: storage is
// one slot larger than the nominal capacity and the write position is never
// allowed to catch up to the read position on the same lap. The reserved
// slot is never readable, so both predicates and size are pure functions of
// the two indices.
type guardSlotBuffer[T any] struct {
	mu    sync.RWMutex
	slots []T // nominal capacity + 1; one slot always stays vacant
	head  int // next write position
	tail  int // next read position

	stats   *Statistics
	metrics *bufferMetrics
	opts    *bufferOptions[T]
}

func newGuardSlotBuffer[T any](capacity int, opts *bufferOptions[T]) (*guardSlotBuffer[T], error) {
	var metrics *bufferMetrics
	if opts.metricsReg != nil {
		var err error
		metrics, err = newBufferMetrics(opts.metricsReg, opts.metricsPrefix, GuardSlot)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Buffer", "New", "metrics registration")
		}
	}

	return &guardSlotBuffer[T]{
		slots:   make([]T, capacity+1),
		stats:   NewStatistics(),
		metrics: metrics,
		opts:    opts,
	}, nil
}

// next advances an index by one slot, wrapping at the true storage length.
func (b *guardSlotBuffer[T]) next(idx int) int {
	return (idx + 1) % len(b.slots)
}

// full, empty and size assume the caller holds b.mu. Public entry points
// lock exactly once and delegate here; they never re-enter another locking
// method of the same buffer.
func (b *guardSlotBuffer[T]) full() bool { return b.next(b.head) == b.tail }

func (b *guardSlotBuffer[T]) empty() bool { return b.head == b.tail }

func (b *guardSlotBuffer[T]) size() int {
	if b.head >= b.tail {
		return b.head - b.tail
	}
	// head is on the next lap around the storage
	return len(b.slots) + b.head - b.tail
}

// Write inserts item, discarding the oldest unread element if the buffer is
// full. The read position advances exactly once per overwrite, inside the
// same critical section as the write that caused it.
func (b *guardSlotBuffer[T]) Write(item T) {
	dropped, overwrote := b.write(item)

	// The callback runs after the critical section so it may safely call
	// back into the buffer.
	if overwrote && b.opts.dropCallback != nil {
		b.opts.dropCallback(dropped)
	}
}

func (b *guardSlotBuffer[T]) write(item T) (dropped T, overwrote bool) {
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

	b.stats.Write()
	b.stats.UpdateSize(int64(b.size()))
	if b.metrics != nil {
		b.metrics.recordWrite(b.size(), b.Capacity())
	}

	return dropped, overwrote
}

// Read removes and returns the oldest unread element in FIFO order.
func (b *guardSlotBuffer[T]) Read() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	if b.empty() {
		return zero, false
	}

	item := b.slots[b.tail]
	b.slots[b.tail] = zero // release the reference
	b.tail = b.next(b.tail)

	b.stats.Read()
	b.stats.UpdateSize(int64(b.size()))
	if b.metrics != nil {
		b.metrics.recordRead(b.size(), b.Capacity())
	}

	return item, true
}

// Peek returns the oldest unread element without removing it.
func (b *guardSlotBuffer[T]) Peek() (T, bool) {
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

// Size returns the current element count, computed from the indices.
func (b *guardSlotBuffer[T]) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size()
}

// Capacity returns the nominal capacity. Immutable, so no lock needed.
func (b *guardSlotBuffer[T]) Capacity() int {
	return len(b.slots) - 1
}

// IsFull reports whether advancing the write position once more would
// collide with the read position.
func (b *guardSlotBuffer[T]) IsFull() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.full()
}

// IsEmpty reports whether the buffer holds no elements.
func (b *guardSlotBuffer[T]) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.empty()
}

// Clear discards all contents in O(1). Storage is not zeroed; stale slots
// are overwritten by subsequent writes.
func (b *guardSlotBuffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tail = b.head

	b.stats.UpdateSize(0)
	if b.metrics != nil {
		b.metrics.updateSize(0, b.Capacity())
	}
}

// Stats returns the buffer's statistics.
func (b *guardSlotBuffer[T]) Stats() *Statistics {
	return b.stats
}
