// Package queue persists burn job records in SQLite. The scheduler's
// in-memory state drives admission; the store is the durable record that
// survives restarts and feeds status retrieval and the CLI job table.
package queue
