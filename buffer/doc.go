// Package buffer provides fixed-capacity, thread-safe circular buffers for
// concurrent producers and consumers, with built-in statistics tracking and
// optional Prometheus metrics integration.
//
// # Overview
//
// A Buffer is an in-process bounded channel between writer and reader
// goroutines. Writes never fail and never block: when the buffer is full,
// the oldest unread element is silently discarded to make room (the
// overwrite-oldest policy). Reads never block: an empty buffer returns
// (zero value, false) immediately. Elements are returned in strict FIFO
// order, including across overwrite events.
//
// # Quick Start
//
// Basic buffer creation:
//
//	buf, err := buffer.New[int](1000)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	buf.Write(42)
//
//	value, ok := buf.Read()
//
// With an explicit strategy, drop callback and metrics:
//
//	buf, err := buffer.New[[]byte](5000,
//		buffer.WithStrategy[[]byte](buffer.FullFlag),
//		buffer.WithDropCallback[[]byte](func(item []byte) { dropped.Add(1) }),
//		buffer.WithMetrics[[]byte](registry, "network_input"),
//	)
//
// # Disambiguation Strategies
//
// When the write and read positions of a circular buffer coincide, the
// buffer is either completely empty or completely full. Two interchangeable
// strategies resolve the ambiguity:
//
//   - GuardSlot (default): storage holds one extra slot that is never
//     occupied, so the two states can never collide in index space. All
//     predicates are pure functions of the indices.
//   - FullFlag: storage holds exactly capacity slots plus an explicit
//     boolean recording fullness, updated with every index mutation.
//
// Both strategies satisfy the same behavioral contract; for identical
// operation sequences they produce identical observable results. Pick
// GuardSlot to avoid the extra field, FullFlag to avoid the wasted slot.
//
// # Concurrency
//
// Every public operation is a single critical section on one non-reentrant
// lock owned by the buffer. Operations never suspend: the only waiting is
// momentary lock contention. There is no backpressure built into Write and
// no wait-for-data built into Read; callers that want either compose the
// buffer with a polling loop (see the streamkit poll package), tolerating
// that a predicate observation can be stale by the time they act on it.
//
// # Observability
//
// Statistics are always collected via atomic counters and available through
// Stats(): operation counts, overflow and drop counts, current and max size,
// throughput and drop rate. Prometheus metrics are optional and enabled with
// WithMetrics; each buffer's series carry its prefix and strategy as
// constant labels.
package buffer
