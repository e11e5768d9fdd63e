package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader reads answers line by line and gives up when the
// context ends, so an interrupted prompt does not hang the command.
type NonBlockingReader struct {
	in *bufio.Reader
	mu sync.Mutex
}

// NewNonBlockingReader wraps r.
func NewNonBlockingReader(r io.Reader) *NonBlockingReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &NonBlockingReader{in: bufio.NewReader(r)}
}

type lineResult struct {
	err  error
	line string
}

// ReadLine returns the next line with surrounding whitespace removed. A last
// line without a newline counts as long as it is not empty; otherwise the
// end of input is io.EOF. A read abandoned on cancellation finishes in the
// background.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	done := make(chan lineResult, 1)
	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		line, err := r.in.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		done <- lineResult{line: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		return res.line, nil
	}
}
