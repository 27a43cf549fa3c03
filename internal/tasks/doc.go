// Package tasks drives queued usernames through a classifier and reports progress.
//
// # Queue Processor
//
// [QueueProcessor] runs at most one [Run] at a time. A run:
//
//  1. Snapshots every Idle or Failed record when it starts
//  2. Marks each record Processing, classifies it and writes back Completed or Failed
//  3. Waits the pacing interval before the next record
//
// Stopping is cooperative. [Run.Stop] is checked between records and interrupts the pacing
// wait, but a classification already in flight is allowed to finish and is still recorded.
// Records added after a run starts wait for the next run. Failed records are retried by
// starting another run.
//
// # Progress Reporting
//
// The processor sends [ProgressUpdate] values on an optional channel. Sends use select with
// default so a slow consumer never stalls a run.
//
// # Session
//
// [Session] bundles a record store and a processor behind the controls used by the CLI, the
// TUI and the HTTP server: add, start, stop, clear and export.
package tasks
