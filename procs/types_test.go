package procs

import (
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{PID: 10, Name: "myserver", Cmdline: []string{"myserver", "--port", "8080"}, CPUPercent: 5.0, MemoryRSS: 100 << 20, ThreadCount: 4, Category: CategoryUser},
		{PID: 20, Name: "postgres", Cmdline: []string{"postgres", "-D", "/data"}, CPUPercent: 1.0, MemoryRSS: 500 << 20, ThreadCount: 12, Category: CategoryServices},
		{PID: 30, Name: "kworker", CPUPercent: 0.0, MemoryRSS: 0, ThreadCount: 1, Category: CategoryBackground},
		{PID: 40, Name: "browser", Cmdline: []string{"browser", "--profile", "work"}, CPUPercent: 25.0, MemoryRSS: 900 << 20, ThreadCount: 40, Category: CategoryUser},
	}
}

func TestHumanMemory(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0.0 MB"},
		{1 << 20, "1.0 MB"},
		{1536 << 10, "1.5 MB"},
		{100 << 20, "100.0 MB"},
	}
	for _, tt := range tests {
		if got := HumanMemory(tt.bytes); got != tt.want {
			t.Errorf("HumanMemory(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFilterCategory(t *testing.T) {
	records := sampleRecords()
	users := FilterCategory(records, CategoryUser)
	if len(users) != 2 {
		t.Fatalf("expected 2 user records, got %d", len(users))
	}
	if users[0].PID != 10 || users[1].PID != 40 {
		t.Errorf("filter reordered records: got pids %d, %d", users[0].PID, users[1].PID)
	}
	if got := FilterCategory(records, CategorySystemIdle); got != nil {
		t.Errorf("expected no idle records, got %v", got)
	}
}

func TestSearch(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		fragment string
		wantPIDs []int32
	}{
		{"myserver", []int32{10}},
		{"MYSERVER", []int32{10}},
		{"--profile", []int32{40}},
		{"8080", []int32{10}},
		{"r", []int32{10, 20, 30, 40}},
		{"nomatch", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := Search(records, tt.fragment)
		if len(got) != len(tt.wantPIDs) {
			t.Errorf("Search(%q) returned %d records, want %d", tt.fragment, len(got), len(tt.wantPIDs))
			continue
		}
		for i, r := range got {
			if r.PID != tt.wantPIDs[i] {
				t.Errorf("Search(%q)[%d].PID = %d, want %d", tt.fragment, i, r.PID, tt.wantPIDs[i])
			}
		}
	}
}

func TestMatchNameIgnoresCmdline(t *testing.T) {
	records := sampleRecords()
	if got := MatchName(records, "--profile"); got != nil {
		t.Errorf("MatchName must not match command lines, got %v", got)
	}
	got := MatchName(records, "Server")
	if len(got) != 1 || got[0].PID != 10 {
		t.Errorf("MatchName(\"Server\") = %v, want pid 10 only", got)
	}
}

func TestSortOrders(t *testing.T) {
	records := sampleRecords()
	SortByCPU(records)
	if records[0].PID != 40 {
		t.Errorf("SortByCPU: first pid = %d, want 40", records[0].PID)
	}

	records = sampleRecords()
	SortByMemory(records)
	if records[0].PID != 40 || records[1].PID != 20 {
		t.Errorf("SortByMemory: got pids %d, %d, want 40, 20", records[0].PID, records[1].PID)
	}

	records = sampleRecords()
	SortByThreads(records)
	if records[0].PID != 40 || records[1].PID != 20 {
		t.Errorf("SortByThreads: got pids %d, %d, want 40, 20", records[0].PID, records[1].PID)
	}
}

func TestSortByThreadsBreaksTiesByCPU(t *testing.T) {
	records := []Record{
		{PID: 1, ThreadCount: 5, CPUPercent: 1.0},
		{PID: 2, ThreadCount: 5, CPUPercent: 9.0},
	}
	SortByThreads(records)
	if records[0].PID != 2 {
		t.Errorf("tie on threads should order by CPU, got pid %d first", records[0].PID)
	}
}

func TestTop(t *testing.T) {
	records := sampleRecords()
	if got := Top(records, 2); len(got) != 2 {
		t.Errorf("Top(2) returned %d records", len(got))
	}
	if got := Top(records, 0); len(got) != len(records) {
		t.Errorf("Top(0) should return everything, got %d", len(got))
	}
	if got := Top(records, 100); len(got) != len(records) {
		t.Errorf("Top(100) should return everything, got %d", len(got))
	}
}
