// Package ingest runs an indexing job: it streams discovered JSONL files
// through the record parser and field deriver into an index sink, committing
// in fixed-size batches.
//
// A job is strictly sequential. Files are read in discovery order and at most
// one record is in flight. Bad lines, unreadable files and failed periodic
// commits are counted and skipped; only a missing input set, a failed index
// creation, a failed final commit or cancellation stop the job.
package ingest
