// Package migrate moves documents from the legacy content store into the
// per-date archives and the hybrid retrieval index.
//
// The pipeline is a one-time backfill designed to be re-runnable: scan,
// filter, dedup, bucket by date, chunk oversized documents, merge into
// the date archives, then embed and index every formational message.
// Re-running against an unchanged source adds nothing, because archive
// merging and index writes both recognize already-present records.
package migrate
