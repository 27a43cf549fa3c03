// Package models defines the domain entities for the igx username checker.
//
// The package contains three categories of types:
//
// 1. Queue entries:
//   - [UsernameRecord] : one queued handle with its classification state
//   - [CheckStatus] : lifecycle of a classification attempt
//   - [PageStatus] : outcome of a classification
//
// 2. Classifier output:
//   - [ClassifierResult] : normalized answer from the remote classifier
//
// 3. Derived values:
//   - [ProcessingStats] : aggregate counts recomputed from the record store
//   - [RecordPatch] : partial update merged into a record by ID
//
// Records are plain values; ownership lives in the repositories package.
package models
