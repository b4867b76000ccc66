// Package testutil provides shared helpers for tests: capturing stdout,
// spawning short-lived child processes for termination tests, and opening
// throwaway TCP listeners for port tests.
package testutil

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"
)

// CaptureOutput captures stdout during function execution.
// It redirects os.Stdout to a pipe, executes the function, and returns the
// captured output. The original stdout is always restored, even if the
// function returns an error.
//
// Example:
//
//	output := testutil.CaptureOutput(t, func() error {
//	    fmt.Println("test output")
//	    return nil
//	})
//	if !strings.Contains(output, "test output") {
//	    t.Error("expected output not found")
//	}
func CaptureOutput(t *testing.T, fn func() error) string {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	os.Stdout = w

	// Buffered so the reader goroutine never leaks.
	outCh := make(chan string, 1)
	go func() {
		var output strings.Builder
		buf := make([]byte, 1024)
		for {
			n, readErr := r.Read(buf)
			if n > 0 {
				output.Write(buf[:n])
			}
			if readErr != nil {
				break
			}
		}
		outCh <- output.String()
	}()

	fnErr := fn()

	if err := w.Close(); err != nil {
		t.Logf("Failed to close pipe writer: %v", err)
	}
	os.Stdout = origStdout

	output := <-outCh

	if fnErr != nil {
		t.Logf("Command error: %v", fnErr)
	}

	return output
}

// StartSleeper spawns a child process that sleeps for roughly the given
// number of seconds and returns its PID. The process is killed on test
// cleanup if it is still running. Used by process-tree termination tests
// that need a real PID to operate on.
func StartSleeper(t *testing.T, seconds int) int {
	t.Helper()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		// timeout.exe refuses redirected stdin; ping is the portable sleep.
		cmd = exec.Command("ping", "-n", strconv.Itoa(seconds+1), "127.0.0.1")
	} else {
		cmd = exec.Command("sleep", strconv.Itoa(seconds))
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start sleeper process: %v", err)
	}

	t.Cleanup(func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = cmd.Wait()
	})

	return cmd.Process.Pid
}

// listenerHelperEnv marks a re-executed test binary as a listener child.
const listenerHelperEnv = "PROCPORT_TEST_LISTENER"

// ListenerHelperMain turns the test binary into a loopback TCP listener when
// re-executed by StartListenerProcess: it prints its port on stdout and
// blocks until killed. Call it first in TestMain; it is a no-op in a normal
// test run.
func ListenerHelperMain() {
	if os.Getenv(listenerHelperEnv) != "1" {
		return
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		os.Exit(1)
	}
	fmt.Println(listener.Addr().(*net.TCPAddr).Port)
	time.Sleep(time.Minute)
	_ = listener.Close()
	os.Exit(0)
}

// StartListenerProcess re-executes the test binary as a separate process
// that listens on an OS-assigned loopback port, and returns the child's pid
// and port. Used by tests that must terminate a real port owner without
// killing themselves. Requires ListenerHelperMain in the package's TestMain.
func StartListenerProcess(t *testing.T) (pid, port int) {
	t.Helper()

	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), listenerHelperEnv+"=1")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("Failed to pipe listener child stdout: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start listener child: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	scanner := bufio.NewScanner(stdout)
	if !scanner.Scan() {
		t.Fatalf("Listener child reported no port: %v", scanner.Err())
	}
	port, err = strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		t.Fatalf("Listener child reported invalid port %q", scanner.Text())
	}

	return cmd.Process.Pid, port
}

// Listen opens a TCP listener on 127.0.0.1 on an OS-assigned port and
// returns the listener and its port. The listener is closed on test cleanup.
func Listen(t *testing.T) (net.Listener, int) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to open test listener: %v", err)
	}
	t.Cleanup(func() { _ = listener.Close() })

	return listener, listener.Addr().(*net.TCPAddr).Port
}
