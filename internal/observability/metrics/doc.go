// Package metrics declares the portal-wide Prometheus collectors: HTTP traffic and
// the size of each cached content collection. Component-specific collectors live
// next to their component (dispatch, ratelimit, worker).
package metrics
