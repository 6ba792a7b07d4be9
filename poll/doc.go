// Package poll provides condition polling with exponential backoff.
//
// # Overview
//
// StreamKit buffers never block: writes overwrite when full and reads return
// immediately when empty. Callers that want backpressure anyway compose a
// buffer with this package, polling the buffer's predicates until the state
// they need is observed.
//
// # Usage Examples
//
// Wait for a buffer to have room before writing:
//
//	err := poll.Until(ctx, poll.DefaultConfig(), func() bool {
//	    return !buf.IsFull()
//	})
//	if err == nil {
//	    buf.Write(item)
//	}
//
// Wait for data with a deadline:
//
//	err := poll.UntilTimeout(ctx, poll.Relaxed(), time.Second, func() bool {
//	    return !buf.IsEmpty()
//	})
//
// Predicate observations are momentary critical sections on the buffer and
// can be stale by the time the caller acts; a "not full" observation may be
// invalidated by another writer before the subsequent write. Polling loops
// must tolerate that race, which is why the buffer's own operations never
// depend on it: an overwrite or an empty read is always a safe outcome.
package poll
