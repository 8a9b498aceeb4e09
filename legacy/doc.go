// Package legacy provides read access to the retired BadgerDB document
// store that predates the recollect index.
//
// The store holds formational documents written by earlier tooling: each
// record carries raw text, an opaque metadata blob, a created-at string in
// one of several historical encodings, and a BLAKE2b content digest. The
// wire format is frozen (see DocumentMUS); this package decodes it but never
// changes it.
//
// The backfill opens the store with WithReadOnly and scans it sequentially
// with ForEach. The write path (Add) exists for the seeder and for tests.
package legacy
