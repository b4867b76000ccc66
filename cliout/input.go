package cliout

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// LineReader delivers lines from a reader through a channel so a pending
// read can be abandoned when a context is canceled. A single goroutine owns
// the underlying reader; sharing one LineReader between the menu and a
// monitor keeps an abandoned read from swallowing the next view's input. A
// canceled read leaves the pending line for the next caller.
type LineReader struct {
	lines chan string
}

// NewLineReader starts reading lines from r.
func NewLineReader(r io.Reader) *LineReader {
	l := &LineReader{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			l.lines <- scanner.Text()
		}
		close(l.lines)
	}()
	return l
}

// Confirm asks a y/N question through the reader. Callers that share a
// LineReader must use this instead of Confirm, which reads os.Stdin directly.
// Returns true immediately in JSON mode.
func (l *LineReader) Confirm(ctx context.Context, message string) bool {
	if IsJSON() {
		return true
	}
	fmt.Printf("%s [y/N]: ", colorize(BrightYellow, message))
	line, ok := l.ReadLine(ctx)
	if !ok {
		return false
	}
	line = strings.ToLower(line)
	return line == "y" || line == "yes"
}

// ReadLine returns the next line with surrounding space trimmed. ok is false
// when the input is exhausted or ctx is canceled.
func (l *LineReader) ReadLine(ctx context.Context) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	select {
	case line, ok := <-l.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-ctx.Done():
		return "", false
	}
}
