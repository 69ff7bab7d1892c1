package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	chunks [][]byte
}

func (r *recorder) ProcessChunk(c []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, c)
}

func (r *recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	for _, c := range r.chunks {
		b.Write(c)
	}
	return b.String()
}

const body = `{"type":"init","data":{"a":"ref$1"}}
{"type":"value","key":"ref$1","value":"héllo"}
`

func TestHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, part := range []string{body[:10], body[10:50], body[50:]} {
			fmt.Fprint(w, part)
			w.(http.Flusher).Flush()
		}
	}))
	defer srv.Close()

	rec := &recorder{}
	h := &HTTP{Header: http.Header{"Authorization": {"Bearer tok"}}, BufSize: 8}
	if err := h.Fetch(context.Background(), srv.URL, rec); err != nil {
		t.Fatal(err)
	}
	if rec.String() != body {
		t.Errorf("got %q", rec.String())
	}
	for _, c := range rec.chunks {
		if len(c) > 8 {
			t.Errorf("chunk of %d bytes exceeds buffer", len(c))
		}
	}

	err := (&HTTP{}).Fetch(context.Background(), srv.URL, rec)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Errorf("expected StatusError 401, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	err := (&HTTP{}).Fetch(context.Background(), srv.URL, &recorder{})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 500 {
		t.Fatalf("expected 500, got %v", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("500 is not an auth failure")
	}
}

func TestHTTPCancel(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"init","data":{}}`)
		w.(http.Flusher).Flush()
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- (&HTTP{}).Fetch(ctx, srv.URL, &recorder{}) }()
	<-started
	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fetch did not return after cancel")
	}
}

func TestReadEvents(t *testing.T) {
	in := ": comment\n" +
		"data: {\"type\":\"init\",\"data\":{}}\n\n" +
		"event: message\r\n" +
		"data: first\r\n" +
		"data: second\r\n\r\n" +
		"data:nospace\n\n" +
		"data: [DONE]\n\n" +
		"data: ignored\n\n"
	rec := &recorder{}
	if err := ReadEvents(strings.NewReader(in), rec); err != nil {
		t.Fatal(err)
	}
	want := "{\"type\":\"init\",\"data\":{}}\nfirst\nsecond\nnospace\n"
	if rec.String() != want {
		t.Errorf("got %q", rec.String())
	}
}

func TestReadEventsEnd(t *testing.T) {
	in := "data: a\n\nevent: end\ndata: bye\n\ndata: b\n\n"
	rec := &recorder{}
	if err := ReadEvents(strings.NewReader(in), rec); err != nil {
		t.Fatal(err)
	}
	if rec.String() != "a\n" {
		t.Errorf("got %q", rec.String())
	}

	rec = &recorder{}
	if err := ReadEvents(strings.NewReader("data: tail"), rec); err != nil {
		t.Fatal(err)
	}
	if rec.String() != "tail\n" {
		t.Errorf("unterminated event: %q", rec.String())
	}
}

func TestSSE(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("accept %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"init\",\"data\":1}\n\ndata: [DONE]\n\n")
	}))
	defer srv.Close()
	rec := &recorder{}
	if err := (&SSE{}).Fetch(context.Background(), srv.URL, rec); err != nil {
		t.Fatal(err)
	}
	if rec.String() != "{\"type\":\"init\",\"data\":1}\n" {
		t.Errorf("got %q", rec.String())
	}
}

func TestFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "stream.ndjson")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, url := range []string{p, "file://" + p} {
		rec := &recorder{}
		if err := (&File{BufSize: 7}).Fetch(context.Background(), url, rec); err != nil {
			t.Fatal(err)
		}
		if rec.String() != body {
			t.Errorf("%s: got %q", url, rec.String())
		}
	}
	rec := &recorder{}
	if err := (&File{Stdin: strings.NewReader("x\n")}).Fetch(context.Background(), "-", rec); err != nil {
		t.Fatal(err)
	}
	if rec.String() != "x\n" {
		t.Errorf("stdin: %q", rec.String())
	}
	if err := (&File{}).Fetch(context.Background(), filepath.Join(t.TempDir(), "nope"), rec); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
}

func TestForURL(t *testing.T) {
	if _, ok := ForURL("http://x/y").(*HTTP); !ok {
		t.Error("http url")
	}
	if _, ok := ForURL("file:///tmp/x").(*File); !ok {
		t.Error("file url")
	}
	if _, ok := ForURL("-").(*File); !ok {
		t.Error("stdin")
	}
}
