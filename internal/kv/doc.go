// Package kv provides the persistent key-value namespaces backing all
// hazreport stores. One SQLite database holds every namespace; each
// namespace gets a single shared handle for the process lifetime.
//
// Write model: Set and Delete stage mutations in an in-memory working copy
// immediately and record them as pending. Persist flushes every pending
// mutation to disk in one transaction; it is the only operation with
// durability guarantees. Callers must call Persist after each logical write
// and must not assume durability before it returns nil. A failed Persist
// discards the staged mutations and rolls the working copy back to the last
// persisted state, so the aborted operation cannot leak into a later flush.
//
// Because one Persist commits all staged mutations atomically, a key rename
// (Set new, Delete old, Persist) cannot leave the database with both keys or
// neither after a crash.
package kv
