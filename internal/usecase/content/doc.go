// Package content exposes one Slice per content type: the cached collection,
// its partitions, the selected record, list filters, pagination and the status
// of every operation, plus the operations that load and change them.
//
// A Slice is owned by whoever builds it (cmd/portal builds one per content type
// at startup); there is no package-level state.
package content
