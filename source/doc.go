// Package source contains producers of records for a chunking pipeline.
//
// Every producer implements Source. Read starts delivering records on a
// channel and reports problems on a second channel; both are closed once
// delivery ends or the context is canceled. A consumer that stops receiving
// pauses the producer, which is how backpressure reaches the record source.
//
// Implementations provided here:
//
//   - Slice emits a fixed list of records.
//   - Channel forwards records from a caller-owned channel.
//   - Cursor decodes records from an Iterator such as *mongo.Cursor.
//   - Error emits a list of records and then fails with an error.
package source
