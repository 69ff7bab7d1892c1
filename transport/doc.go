// Package transport delivers the raw bytes of a stream to a Sink.
//
// A Fetcher reads one stream to its end. Returning nil means the stream
// completed, returning an error means it failed; a cancelled context is
// reported as the context's error. Fetchers never retry.
//
// Chunk boundaries carry no meaning: a chunk may end in the middle of a
// line or of a multi-byte character, and the Sink is responsible for
// reassembling lines.
package transport
