package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signadot/pjson/debug"
)

// File reads a recorded stream from a file. The url is a path, a file://
// URL, or "-" for Stdin.
type File struct {
	Stdin   io.Reader
	BufSize int
}

func (f *File) Fetch(ctx context.Context, url string, sink Sink) error {
	var r io.Reader
	if url == "-" {
		r = f.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		fh, err := os.Open(strings.TrimPrefix(url, "file://"))
		if err != nil {
			return err
		}
		defer fh.Close()
		r = fh
	}
	size := f.BufSize
	if size <= 0 {
		size = defaultBufSize
	}
	buf := make([]byte, size)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if debug.Transport() {
				debug.Logf("chunk %d bytes from %s\n", n, url)
			}
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			sink.ProcessChunk(chunk)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", url, err)
		}
	}
}
