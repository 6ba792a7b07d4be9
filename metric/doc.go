// Package metric provides Prometheus metrics management for StreamKit
// components: a registry that tracks ownership of registered collectors,
// and an HTTP server that exposes them in Prometheus exposition format.
//
// # Registry
//
// MetricsRegistry wraps a dedicated prometheus.Registry. Components register
// collectors under an (owner, name) key; duplicate registrations return a
// classified error instead of panicking, and a component's metrics can be
// removed as a group with UnregisterAll.
//
//	registry := metric.NewMetricsRegistry()
//	err := registry.Register("input_queue", "buffer_writes", writesCounter)
//
// Go runtime and process collectors are pre-registered.
//
// # Server
//
// Server exposes the registry over HTTP, with a /health endpoint alongside
// the metrics path:
//
//	srv := metric.NewServer(9090, "/metrics", registry)
//	if err := srv.Start(); err != nil {
//		return err
//	}
//	defer srv.Stop(ctx)
package metric
