// Package eval compiles and runs expr-lang expressions against documents.
//
// Programs are compiled once and may be run many times, concurrently. Each
// run sees the document as the variable "doc" (plain Go values), any
// caller supplied variables, and the functions
//
//	getpath("$.a.b")   value at a path of the document, nil if absent
//	haspath("$.a.b")   whether the path addresses a value
//	isref(v)           whether v is an unresolved placeholder
//	getenv("NAME")     an environment variable
//
// # Related Packages
//
//   - github.com/signadot/pjson/handler - the "expr" message handler
//   - github.com/signadot/pjson/engine - snapshot selection
package eval
