// Package engine applies a progressive JSON stream to a document.
//
// An Engine holds one live document and the reference store of the
// stream which fills it in. Chunks from a transport (or from
// ProcessChunk) are split into lines, each line is parsed as a message
// and applied by the handler registered for its type, producing a new
// immutable snapshot. Subscribers are notified of every snapshot which
// differs from the previous one.
//
// Streaming state moves between Idle, Streaming, Complete and Errored:
//
//	Idle|Complete|Errored --StartFetching--> Streaming
//	Streaming --fetch returns nil--> Complete
//	Streaming --fetch returns error--> Errored
//	any --Stop--> Idle
//
// Chunks are applied one at a time in arrival order. Callbacks run
// without the engine lock held and may call back into the engine.
package engine
