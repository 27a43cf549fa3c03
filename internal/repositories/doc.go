// Package repositories implements the in-memory record store that owns every queued username for a session.
//
// Key Implementations:
//   - [RecordRepository] : ordered collection of [models.UsernameRecord] values keyed by ID
//
// Callers only ever receive copies. Updates are merges of a [models.RecordPatch] addressed by ID,
// so a queue run holding a snapshot can keep writing results while the user adds or clears records.
package repositories
