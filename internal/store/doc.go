// Package store provides SQLite-backed durable storage for execution runs.
//
// A run is identified by a UUIDv7, so run ids sort by creation time. Its
// events are stored as they are reported, ordered by the logical sequence
// number of the trace that stamped them; wall time is never stored.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - 5-second busy timeout
//   - foreign keys enforced
//   - a single open connection: SQLite has one writer
package store
