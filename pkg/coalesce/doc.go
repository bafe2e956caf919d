// Package coalesce debounces raw file-system notifications into
// minimal batches of create, delete, and rename intents.
//
// The notification source has no rename primitive and may deliver
// duplicated or reordered events. Renames are therefore inferred: a
// delete is held for a detection window and paired with a later create
// in the same directory by a name-similarity score. Contradictory
// pairs (create then delete of the same path, or the reverse) cancel
// to a net no-op before any work is scheduled.
//
// The clock and timer scheduler are injected, so tests drive the
// debounce, detection, and settle delays deterministically.
package coalesce
