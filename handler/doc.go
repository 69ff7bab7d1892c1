// Package handler applies messages to documents.
//
// A Handler is selected by message type through a Registry; the first
// handler registered for a type wins. Handlers never address the document
// directly: they go through the Capability passed to each call, which
// resolves message keys to paths, applies copy-on-write updates and
// records the placeholders found in new values.
//
// The built-in types init, value, text, push and concat are implemented
// here as ordinary handlers (see Builtins). The extension handlers
// increment, merge, json-patch and expr are available by name through
// Lookup.
package handler
