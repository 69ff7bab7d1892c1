// Package ir contains the in-memory representation of progressively built
// JSON documents.
//
// A document is a tree of *Node. The Type field indicates the node's type:
//
//   - NullType: null value
//   - BoolType: boolean (true/false)
//   - NumberType: numeric value (int64, float64 or raw decimal text)
//   - StringType: string value
//   - ArrayType: ordered list of nodes in Values
//   - ObjectType: members, Fields[i] is the key for Values[i]
//
// Documents are persistent: Update, WithField, WithIndex and Append return
// new nodes which share every untouched subtree with their input. A node
// handed out as part of a snapshot must not be modified.
//
// Paths (*Path) locate values and print as "$.posts[2].title". The nil
// path is the root.
package ir
