package procs

import (
	"context"
	"os"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/procport/procport/testutil"
)

func TestTerminateTreeAlreadyGone(t *testing.T) {
	// A pid nobody can hold for long; terminating a dead tree is a no-op
	// success with empty buckets.
	result := TerminateTree(context.Background(), 1<<30, time.Second, time.Second)
	if !result.Done() {
		t.Fatalf("expected success for nonexistent pid, got failures: %v", result.Failed)
	}
	if len(result.Terminated) != 0 || len(result.Killed) != 0 {
		t.Errorf("expected empty result for nonexistent pid, got %+v", result)
	}
}

func TestTerminateTreeRealProcess(t *testing.T) {
	pid := testutil.StartSleeper(t, 30)

	result := TerminateTree(context.Background(), int32(pid), 5*time.Second, 3*time.Second)
	if !result.Done() {
		t.Fatalf("failed to terminate sleeper %d: %v", pid, result.Failed)
	}
	ended := append(result.Terminated, result.Killed...)
	found := false
	for _, p := range ended {
		if p == int32(pid) {
			found = true
		}
	}
	if !found {
		t.Errorf("pid %d not reported in Terminated or Killed: %+v", pid, result)
	}

	// The pid must actually be gone.
	if _, ok := Lookup(context.Background(), int32(pid)); ok {
		t.Errorf("pid %d still alive after TerminateTree", pid)
	}
}

func TestTerminateTreeEscalatesToKill(t *testing.T) {
	// The shell traps SIGTERM, so the graceful phase cannot end it; it must
	// land in Killed after the timeout.
	pid := testutil.StartStubbornSleeper(t, 30)

	result := TerminateTree(context.Background(), int32(pid), time.Second, 3*time.Second)
	if !result.Done() {
		t.Fatalf("failed to end stubborn shell %d: %v", pid, result.Failed)
	}
	if contains(result.Terminated, int32(pid)) {
		t.Errorf("SIGTERM-ignoring pid %d reported as gracefully terminated", pid)
	}
	if !contains(result.Killed, int32(pid)) {
		t.Errorf("pid %d not reported in Killed: %+v", pid, result)
	}
}

func TestTerminateTreeWithChildren(t *testing.T) {
	pid := testutil.StartSleeperTree(t, 30)

	// Wait for the shell to have forked both sleepers.
	shell, err := process.NewProcess(int32(pid))
	if err != nil {
		t.Fatalf("shell %d not visible: %v", pid, err)
	}
	var childPids []int32
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		children, err := shell.Children()
		if err == nil && len(children) >= 2 {
			for _, c := range children {
				childPids = append(childPids, c.Pid)
			}
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if len(childPids) < 2 {
		t.Fatalf("shell %d never showed 2 children", pid)
	}

	result := TerminateTree(context.Background(), int32(pid), 5*time.Second, 3*time.Second)
	if !result.Done() {
		t.Fatalf("failed to terminate tree rooted at %d: %v", pid, result.Failed)
	}
	ended := append(result.Terminated, result.Killed...)
	for _, want := range append(childPids, int32(pid)) {
		if !contains(ended, want) {
			t.Errorf("pid %d missing from result: %+v", want, result)
		}
	}
}

func TestTerminateTreeUnreapedChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no zombie processes on windows")
	}
	pid := testutil.StartSleeper(t, 30)

	// Kill the child without reaping it, leaving a zombie behind.
	child, err := os.FindProcess(pid)
	if err != nil {
		t.Fatal(err)
	}
	if err := child.Kill(); err != nil {
		t.Fatal(err)
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		t.Fatalf("zombie %d not visible: %v", pid, err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st, err := p.Status()
		if err != nil || slices.Contains(st, process.Zombie) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	// A dead-but-unreaped target must count as gone immediately, not burn
	// the full timeout and grace.
	start := time.Now()
	result := TerminateTree(context.Background(), int32(pid), 5*time.Second, 3*time.Second)
	if !result.Done() {
		t.Fatalf("zombie %d reported as failure: %v", pid, result.Failed)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("spent %v waiting on a dead process", elapsed)
	}
}

func TestKillTreeRealProcess(t *testing.T) {
	pid := testutil.StartSleeper(t, 30)

	result := KillTree(context.Background(), int32(pid), 3*time.Second)
	if !result.Done() {
		t.Fatalf("failed to kill sleeper %d: %v", pid, result.Failed)
	}
	if len(result.Terminated) != 0 {
		t.Errorf("forced kill must not report graceful terminations: %+v", result)
	}
	found := false
	for _, p := range result.Killed {
		if p == int32(pid) {
			found = true
		}
	}
	if !found {
		t.Errorf("pid %d not reported in Killed: %+v", pid, result)
	}
}

func TestKillTreeAlreadyGone(t *testing.T) {
	result := KillTree(context.Background(), 1<<30, time.Second)
	if !result.Done() || len(result.Killed) != 0 {
		t.Errorf("expected empty success for nonexistent pid, got %+v", result)
	}
}

func TestTreeResultMerge(t *testing.T) {
	a := TreeResult{Terminated: []int32{1, 2}}
	b := TreeResult{Killed: []int32{3}, Failed: []Failure{{PID: 4, Error: "x"}}}
	a.Merge(b)
	if len(a.Terminated) != 2 || len(a.Killed) != 1 || len(a.Failed) != 1 {
		t.Errorf("merge lost entries: %+v", a)
	}
	if a.Done() {
		t.Error("Done() must be false when failures are present")
	}
}

func TestTreeResultDedupe(t *testing.T) {
	r := TreeResult{
		Terminated: []int32{1, 2, 2},
		Killed:     []int32{2, 3, 3},
		Failed: []Failure{
			{PID: 1, Error: "stale"},
			{PID: 4, Error: "real"},
			{PID: 4, Error: "duplicate"},
		},
	}
	r.dedupe()

	if len(r.Terminated) != 2 {
		t.Errorf("Terminated = %v, want [1 2]", r.Terminated)
	}
	if len(r.Killed) != 1 || r.Killed[0] != 3 {
		t.Errorf("Killed = %v, want [3]", r.Killed)
	}
	if len(r.Failed) != 1 || r.Failed[0].PID != 4 {
		t.Errorf("Failed = %v, want pid 4 only", r.Failed)
	}
}
