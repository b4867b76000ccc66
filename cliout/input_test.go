package cliout

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLineReader(t *testing.T) {
	in := NewLineReader(strings.NewReader("  one  \ntwo\n"))

	line, ok := in.ReadLine(context.Background())
	if !ok || line != "one" {
		t.Errorf("first ReadLine = (%q, %v)", line, ok)
	}
	line, ok = in.ReadLine(context.Background())
	if !ok || line != "two" {
		t.Errorf("second ReadLine = (%q, %v)", line, ok)
	}
	if _, ok := in.ReadLine(context.Background()); ok {
		t.Error("expected ok=false at end of input")
	}
}

func TestLineReaderCanceledLeavesLine(t *testing.T) {
	in := NewLineReader(strings.NewReader("keep\n"))

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := in.ReadLine(canceled); ok {
		t.Fatal("canceled read must not deliver a line")
	}

	// The line survives for the next caller.
	line, ok := in.ReadLine(context.Background())
	if !ok || line != "keep" {
		t.Errorf("ReadLine after canceled read = (%q, %v), want (\"keep\", true)", line, ok)
	}
}

func TestLineReaderConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		in := NewLineReader(strings.NewReader(tt.in))
		if got := in.Confirm(context.Background(), "proceed?"); got != tt.want {
			t.Errorf("Confirm with input %q = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLineReaderBlockedReadAborts(t *testing.T) {
	r, _ := io.Pipe()
	in := NewLineReader(r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_, _ = in.ReadLine(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ReadLine did not abort on cancel")
	}
}
