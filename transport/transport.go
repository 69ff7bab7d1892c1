package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sink receives chunks in stream order. The chunk is not retained by the
// caller and may be kept.
type Sink interface {
	ProcessChunk(chunk []byte)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string, sink Sink) error
}

type FetcherFunc func(ctx context.Context, url string, sink Sink) error

func (f FetcherFunc) Fetch(ctx context.Context, url string, sink Sink) error {
	return f(ctx, url, sink)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(chunk []byte)

func (f SinkFunc) ProcessChunk(chunk []byte) { f(chunk) }

var ErrUnauthorized = errors.New("authentication failed")

// StatusError reports a response with a non 2xx status. It matches
// ErrUnauthorized for 401 and 403.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// ForURL picks a fetcher by scheme: file URLs and "-" (stdin) are read
// with File, everything else with HTTP.
func ForURL(url string) Fetcher {
	if url == "-" || strings.HasPrefix(url, "file://") {
		return &File{}
	}
	return &HTTP{}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &StatusError{Code: resp.StatusCode, Status: resp.Status}
}

func ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}
