// Package server implements streamd, an HTTP server which emits
// progressive JSON streams.
//
// Routes:
//
//	GET /streams          names of the available streams
//	GET /streams/{name}   one stream, NDJSON by default; server sent events
//	                      with ?sse=1 or Accept: text/event-stream
//	GET /healthz          liveness
//	GET /metrics          prometheus metrics
//
// The stream "demo" is built in. Further streams are read from YAML
// scripts, one per file, named after the file:
//
//	steps:
//	  - message: {type: init, data: {user: ref$1}}
//	  - delay: 150ms
//	    message: {type: value, key: ref$1, value: {name: Alice}}
//
// Every response carries an X-Stream-Id header which also tags the log
// lines of the stream.
package server
