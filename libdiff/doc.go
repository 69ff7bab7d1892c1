// Package libdiff computes the changes between two snapshots of a
// document, for display while a stream progresses.
//
// Unchanged subtrees are skipped by pointer comparison, so diffing
// consecutive snapshots costs time proportional to what a message touched.
// Arrays are aligned with a character diff over per-element summaries and
// strings carry character level edits.
package libdiff
