// Package message defines the newline delimited patch protocol.
//
// Every line of a stream is one JSON object with a string "type". The
// built-in types are
//
//	{"type": "init", "data": <document>}
//	{"type": "value", "key": "ref$1", "value": <json>}
//	{"type": "text", "key": "ref$2", "value": "more text"}
//	{"type": "push", "key": "ref$3", "value": <json>}
//	{"type": "concat", "key": "ref$3", "value": [<json>, ...]}
//
// Any other type is an extension and is passed to the handler registered
// for it. Extension messages may carry arbitrary additional members.
//
// The package also provides the producing side: constructors, a KeyGen
// for placeholder keys and writers for NDJSON and server sent events.
package message
