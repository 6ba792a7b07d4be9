package buffer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/c360/streamkit/errors"
)

// strategies is the table every contract test runs against: both variants
// must satisfy identical observable behavior.
var strategies = []struct {
	name     string
	strategy Strategy
}{
	{"GuardSlot", GuardSlot},
	{"FullFlag", FullFlag},
}

func newTestBuffer[T any](t *testing.T, capacity int, strategy Strategy, options ...Option[T]) Buffer[T] {
	t.Helper()
	options = append(options, WithStrategy[T](strategy))
	buf, err := New[T](capacity, options...)
	require.NoError(t, err, "Failed to create buffer")
	return buf
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		buf, err := New[int](capacity)
		require.Error(t, err, "capacity %d should be rejected", capacity)
		assert.Nil(t, buf)
		assert.True(t, cerrors.IsInvalid(err), "expected invalid-classified error, got %v", err)
	}
}

func TestInitialState(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, 5, tc.strategy)

			assert.Equal(t, 0, buf.Size())
			assert.Equal(t, 5, buf.Capacity())
			assert.True(t, buf.IsEmpty())
			assert.False(t, buf.IsFull())

			_, ok := buf.Read()
			assert.False(t, ok, "read on a fresh buffer should return no value")
		})
	}
}

func TestBasicOperations(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[string](t, 3, tc.strategy)

			buf.Write("first")
			assert.Equal(t, 1, buf.Size())
			assert.False(t, buf.IsEmpty())
			assert.False(t, buf.IsFull())

			buf.Write("second")
			buf.Write("third")
			assert.True(t, buf.IsFull())
			assert.Equal(t, 3, buf.Size())

			// Peek must not consume
			value, ok := buf.Peek()
			require.True(t, ok)
			assert.Equal(t, "first", value)
			assert.Equal(t, 3, buf.Size(), "Peek should not change size")

			value, ok = buf.Read()
			require.True(t, ok)
			assert.Equal(t, "first", value)
			assert.Equal(t, 2, buf.Size())
			assert.False(t, buf.IsFull())

			value, ok = buf.Read()
			require.True(t, ok)
			assert.Equal(t, "second", value)

			value, ok = buf.Read()
			require.True(t, ok)
			assert.Equal(t, "third", value)
			assert.True(t, buf.IsEmpty())
		})
	}
}

func TestEmptyReadContract(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, 4, tc.strategy)

			// Fresh buffer
			_, ok := buf.Read()
			assert.False(t, ok)
			assert.Equal(t, 0, buf.Size(), "empty read must not mutate state")

			// Freshly cleared buffer
			buf.Write(1)
			buf.Write(2)
			buf.Clear()
			_, ok = buf.Read()
			assert.False(t, ok)
			assert.Equal(t, 0, buf.Size())
		})
	}
}

func TestFIFOOrderingAcrossWrap(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, 4, tc.strategy)

			// Interleave writes and reads so the indices wrap several times.
			next := 0
			expected := 0
			for round := 0; round < 10; round++ {
				for i := 0; i < 3; i++ {
					buf.Write(next)
					next++
				}
				for i := 0; i < 3; i++ {
					value, ok := buf.Read()
					require.True(t, ok)
					require.Equal(t, expected, value, "FIFO order violated")
					expected++
				}
			}
			assert.True(t, buf.IsEmpty())
		})
	}
}

func TestClearIdempotence(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, 3, tc.strategy)

			// Clear on an already-empty buffer is a no-op
			assert.True(t, buf.IsEmpty())
			buf.Clear()
			assert.True(t, buf.IsEmpty())
			assert.Equal(t, 0, buf.Size())

			buf.Write(1)
			buf.Clear()
			assert.True(t, buf.IsEmpty())
			assert.False(t, buf.IsFull())

			_, ok := buf.Read()
			assert.False(t, ok, "read immediately after clear must yield no value")

			// The buffer stays usable after clear
			buf.Write(7)
			value, ok := buf.Read()
			require.True(t, ok)
			assert.Equal(t, 7, value)
		})
	}
}

func TestClearWhenFull(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, 3, tc.strategy)

			buf.Write(1)
			buf.Write(2)
			buf.Write(3)
			require.True(t, buf.IsFull())

			buf.Clear()
			assert.True(t, buf.IsEmpty())
			assert.False(t, buf.IsFull())
			assert.Equal(t, 0, buf.Size())

			// Refill completely: the cleared buffer accepts capacity elements
			buf.Write(10)
			buf.Write(11)
			buf.Write(12)
			assert.True(t, buf.IsFull())

			for i, want := range []int{10, 11, 12} {
				value, ok := buf.Read()
				require.True(t, ok, "read %d", i)
				assert.Equal(t, want, value)
			}
		})
	}
}

func TestCapacityOne(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, 1, tc.strategy)

			buf.Write(1)
			assert.True(t, buf.IsFull(), "capacity-1 buffer should be full after one write")
			assert.Equal(t, 1, buf.Size())

			// Overwrite on the smallest possible buffer
			buf.Write(2)
			assert.Equal(t, 1, buf.Size())

			value, ok := buf.Read()
			require.True(t, ok)
			assert.Equal(t, 2, value)
			assert.True(t, buf.IsEmpty())
		})
	}
}

func TestGenericTypes(t *testing.T) {
	type event struct {
		ID   int
		Name string
	}

	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			structBuf := newTestBuffer[event](t, 2, tc.strategy)
			structBuf.Write(event{ID: 1, Name: "first"})
			structBuf.Write(event{ID: 2, Name: "second"})

			result, ok := structBuf.Read()
			require.True(t, ok)
			assert.Equal(t, event{ID: 1, Name: "first"}, result)

			ptrBuf := newTestBuffer[*event](t, 2, tc.strategy)
			ptrBuf.Write(&event{ID: 3})
			ptr, ok := ptrBuf.Read()
			require.True(t, ok)
			assert.Equal(t, 3, ptr.ID)

			// A drained buffer must not pin the element
			_, ok = ptrBuf.Read()
			assert.False(t, ok)
		})
	}
}

func TestStatisticsTracking(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, 2, tc.strategy)
			stats := buf.Stats()
			require.NotNil(t, stats)

			buf.Write(1)
			buf.Write(2)
			buf.Write(3) // overwrites 1

			assert.Equal(t, int64(3), stats.Writes())
			assert.Equal(t, int64(1), stats.Overflows())
			assert.Equal(t, int64(1), stats.Drops())
			assert.Equal(t, int64(2), stats.CurrentSize())
			assert.Equal(t, int64(2), stats.MaxSize())

			_, _ = buf.Peek()
			_, _ = buf.Read()
			assert.Equal(t, int64(1), stats.Peeks())
			assert.Equal(t, int64(1), stats.Reads())
			assert.Equal(t, int64(1), stats.CurrentSize())

			summary := stats.Summary()
			assert.Equal(t, int64(3), summary.Writes)
			assert.InDelta(t, 1.0/3.0, summary.DropRate, 1e-9)

			stats.Reset()
			assert.Equal(t, int64(0), stats.Writes())
			assert.Equal(t, int64(0), stats.MaxSize())
		})
	}
}

func TestDropCallback(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			var mu sync.Mutex
			var dropped []int

			buf := newTestBuffer[int](t, 2, tc.strategy,
				WithDropCallback[int](func(item int) {
					mu.Lock()
					dropped = append(dropped, item)
					mu.Unlock()
				}),
			)

			buf.Write(1)
			buf.Write(2)
			buf.Write(3) // drops 1
			buf.Write(4) // drops 2

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, []int{1, 2}, dropped, "oldest elements dropped in order")
		})
	}
}

// TestDropCallbackReentry verifies the callback runs outside the buffer's
// critical section: calling back into the buffer must not deadlock.
func TestDropCallbackReentry(t *testing.T) {
	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			var buf Buffer[int]
			var observed atomic.Int64

			buf = newTestBuffer[int](t, 2, tc.strategy,
				WithDropCallback[int](func(item int) {
					// Re-entering a public method is only safe because the
					// callback runs after the write's unlock.
					observed.Store(int64(buf.Size()))
				}),
			)

			buf.Write(1)
			buf.Write(2)

			done := make(chan struct{})
			go func() {
				buf.Write(3)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("drop callback deadlocked against the buffer lock")
			}
			assert.Equal(t, int64(2), observed.Load())
		})
	}
}

// TestConcurrentProducerConsumer mirrors the bounded-channel use case: one
// writer pushes capacity+42 sequential values with a backpressure poll, one
// reader drains until the writer signals completion and the buffer is empty.
// No value may be skipped or duplicated, and size must never exceed capacity.
func TestConcurrentProducerConsumer(t *testing.T) {
	const capacity = 64
	const total = capacity + 42

	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, capacity, tc.strategy)

			var writerDone atomic.Bool
			var wg sync.WaitGroup

			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < total; i++ {
					// Single writer: once the buffer is observed not full it
					// cannot fill again before this write, so nothing is
					// ever overwritten.
					for buf.IsFull() {
						time.Sleep(time.Millisecond)
					}
					buf.Write(i)
				}
				writerDone.Store(true)
			}()

			var received []int
			var sizeViolation atomic.Bool
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					if buf.Size() > capacity {
						sizeViolation.Store(true)
					}
					if value, ok := buf.Read(); ok {
						received = append(received, value)
						continue
					}
					if writerDone.Load() && buf.IsEmpty() {
						return
					}
				}
			}()

			wg.Wait()

			assert.False(t, sizeViolation.Load(), "size exceeded capacity during concurrent run")

			require.Len(t, received, total, "values were skipped or duplicated")
			for i, value := range received {
				require.Equal(t, i, value, "value out of order at position %d", i)
			}
			assert.True(t, buf.IsEmpty())
		})
	}
}

// TestConcurrentIntegrity hammers a buffer with multiple writers and readers
// and checks conservation: every write is accounted for by a read, a drop,
// or an element still resident.
func TestConcurrentIntegrity(t *testing.T) {
	const (
		capacity       = 128
		numWorkers     = 8
		itemsPerWorker = 500
	)

	for _, tc := range strategies {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer[int](t, capacity, tc.strategy)

			var wg sync.WaitGroup
			var readCount atomic.Int64

			wg.Add(numWorkers)
			for w := 0; w < numWorkers; w++ {
				go func(worker int) {
					defer wg.Done()
					for i := 0; i < itemsPerWorker; i++ {
						buf.Write(worker*itemsPerWorker + i)
					}
				}(w)
			}

			wg.Add(numWorkers)
			for w := 0; w < numWorkers; w++ {
				go func() {
					defer wg.Done()
					for i := 0; i < itemsPerWorker; i++ {
						if _, ok := buf.Read(); ok {
							readCount.Add(1)
						}
					}
				}()
			}

			wg.Wait()

			stats := buf.Stats()
			totalWritten := int64(numWorkers * itemsPerWorker)
			assert.Equal(t, totalWritten, stats.Writes())
			assert.Equal(t, totalWritten, readCount.Load()+stats.Drops()+int64(buf.Size()),
				"writes must equal reads + drops + resident elements")
			assert.LessOrEqual(t, buf.Size(), capacity)
		})
	}
}
