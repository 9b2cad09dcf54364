// Package resilience groups the fault tolerance helpers placed in front of the
// content backend.
//
// Content calls are never retried automatically: a failed fetch or mutation is
// reported to the caller as a rejected operation. The circuit breaker only
// stops hammering a backend that is already failing.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.BackendConfig("news"))
//	repo := circuitbreaker.WrapContent(cb, postgres.NewNewsRepo(db))
package resilience
