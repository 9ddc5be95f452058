// Package ingest reads the two trajectory source formats and normalises
// them into trajectory records.
//
// Field data is the NGSIM whitespace flat file. Model data is a columnar
// table held either in a Parquet file or in a SQLite trajectory store
// (internal/db). Readers do no cross-record work; LoadNGSIM and LoadModel
// chain identity resolution, the time window and trajectory.Assemble.
package ingest
