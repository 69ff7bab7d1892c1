// Package ref implements placeholder references: the "ref$<n>" strings a
// server embeds in a document for values it has not sent yet.
//
// Scan finds the placeholders in a document and reports where they are,
// Store keeps the running id to path index for a stream, and Filter
// produces a view of a document with every unresolved placeholder removed.
package ref
