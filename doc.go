// Package streamkit provides in-process building blocks for concurrent
// data flow between producers and consumers.
//
// # Packages
//
// StreamKit is organized as a small set of focused packages:
//
//   - buffer: fixed-capacity, thread-safe circular buffers with two
//     interchangeable full/empty disambiguation strategies and an
//     overwrite-oldest overflow policy
//   - poll: caller-side condition polling with exponential backoff,
//     for callers that want backpressure on top of a non-blocking buffer
//   - errors: classified error handling (transient, invalid, fatal)
//   - metric: Prometheus metrics registry and exposition server
//
// # Design principles
//
// StreamKit components never block inside the data path: a buffer write
// always succeeds immediately (overwriting the oldest unread element when
// full) and a read on an empty buffer returns immediately with no value.
// Callers that need to wait for capacity or for data compose the buffer
// with the poll package.
//
// Observability is built in: buffers always collect statistics via atomic
// counters, and can optionally export Prometheus metrics through the
// metric package's registry.
//
// StreamKit MUST NOT contain:
//   - Network transports or wire protocols
//   - Persistence of buffered contents
//   - Domain-specific payload interpretation (elements are opaque values)
//
// Those concerns belong to the systems that embed StreamKit.
package streamkit
