// Package reader implements the External Reader Bridge (spec.md §6): a
// subprocess speaking a MessagePack-framed request/response protocol over
// stdin/stdout, registered against one or more custom URI schemes so
// `read`/`import` can reach resources a Pkl evaluation has no built-in
// support for.
package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cwbudde/go-pkl/internal/errors"
)

// request is one call frame sent to the external process.
type request struct {
	ID     uint64 `msgpack:"id"`
	Method string `msgpack:"method"`
	URI    string `msgpack:"uri"`
}

// response is one reply frame, echoing the request ID.
type response struct {
	ID       uint64   `msgpack:"id"`
	Contents string   `msgpack:"contents,omitempty"`
	Elements []string `msgpack:"elements,omitempty"`
	Err      string   `msgpack:"error,omitempty"`
}

// Bridge manages one external reader subprocess. Each call takes a fresh
// request ID and registers its own buffered reply channel under it (mu
// guards only nextID and pending), writes one frame to stdin outside the
// mutex, then blocks on that channel until the goroutine reading stdout
// delivers the matching ID, mirroring the teacher's FFI
// callback boundary (internal/interp/ffi_callback.go) adapted to a
// subprocess instead of an in-process callback.
type Bridge struct {
	scheme string
	cmd    *exec.Cmd
	stdin  io.WriteCloser

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan response

	closed atomic.Bool
}

// Start launches command as the external reader for scheme, decoding its
// stdout as a stream of MessagePack response frames.
func Start(scheme, command string, args ...string) (*Bridge, error) {
	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.IO("starting external reader %q: %v", command, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.IO("starting external reader %q: %v", command, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.IO("starting external reader %q: %v", command, err)
	}

	b := &Bridge{scheme: scheme, cmd: cmd, stdin: stdin, pending: make(map[uint64]chan response)}
	go b.readLoop(stdout)
	return b, nil
}

func (b *Bridge) Scheme() string { return b.scheme }

func (b *Bridge) readLoop(stdout io.Reader) {
	dec := msgpack.NewDecoder(bufio.NewReader(stdout))
	for {
		var resp response
		if err := dec.Decode(&resp); err != nil {
			b.failAllPending(err)
			return
		}
		b.mu.Lock()
		ch, ok := b.pending[resp.ID]
		if ok {
			delete(b.pending, resp.ID)
		}
		b.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

func (b *Bridge) failAllPending(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.pending {
		ch <- response{ID: id, Err: err.Error()}
		delete(b.pending, id)
	}
}

func (b *Bridge) call(ctx context.Context, method, uri string) (response, error) {
	if b.closed.Load() {
		return response{}, errors.IO("external reader %q is closed", b.scheme)
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan response, 1)
	b.pending[id] = ch
	b.mu.Unlock()

	enc := msgpack.NewEncoder(b.stdin)
	if err := enc.Encode(request{ID: id, Method: method, URI: uri}); err != nil {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		return response{}, errors.IO("writing request to external reader %q: %v", b.scheme, err)
	}

	select {
	case resp := <-ch:
		if resp.Err != "" {
			return response{}, errors.IO("external reader %q: %s", b.scheme, resp.Err)
		}
		return resp, nil
	case <-ctx.Done():
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		return response{}, errors.IO("external reader %q: %v", b.scheme, ctx.Err())
	}
}

func (b *Bridge) Read(uri string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	resp, err := b.call(ctx, "read", uri)
	if err != nil {
		return "", err
	}
	return resp.Contents, nil
}

func (b *Bridge) ListElements(uri string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	resp, err := b.call(ctx, "listElements", uri)
	if err != nil {
		return nil, err
	}
	return resp.Elements, nil
}

// Close signals the subprocess to exit and waits up to 3 seconds before
// killing it outright, the bounded-shutdown behaviour spec.md's Open
// Questions settled on for the External Reader Bridge.
func (b *Bridge) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	b.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- b.cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		if err := b.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("killing external reader %q after timeout: %w", b.scheme, err)
		}
		<-done
		return errors.IO("external reader %q did not exit within 3s, killed", b.scheme)
	}
}
