package procs

import (
	"fmt"
	"sort"
	"strings"
)

// Category is the coarse process classification label.
type Category string

// The closed category set. Classification is heuristic; a process landing in
// the wrong bucket is expected occasionally and is not an error.
const (
	CategorySystemIdle Category = "System Idle"
	CategorySystem     Category = "System"
	CategoryUser       Category = "User"
	CategoryServices   Category = "Services"
	CategoryBackground Category = "Background"
	CategoryOther      Category = "Other"
)

// Categories returns the selectable categories in menu order. System Idle is
// not listed; it is a classification result only (at most one process).
func Categories() []Category {
	return []Category{
		CategorySystem,
		CategoryUser,
		CategoryServices,
		CategoryBackground,
		CategoryOther,
	}
}

// Record is a point-in-time snapshot of one process. It reflects OS state at
// fetch time only; the pid may be reused by the OS after the process dies.
type Record struct {
	PID         int32    `json:"pid"`
	PPID        int32    `json:"ppid,omitempty"`
	Name        string   `json:"name"`
	User        string   `json:"user,omitempty"`
	Exe         string   `json:"exe,omitempty"`
	Cmdline     []string `json:"cmdline,omitempty"`
	CPUPercent  float64  `json:"cpu"`
	MemoryRSS   uint64   `json:"mem"`
	MemoryHuman string   `json:"memHuman"`
	ThreadCount int32    `json:"threads"`
	Category    Category `json:"category"`
}

// HumanMemory renders a byte count as a short MB string, matching the
// original display format.
func HumanMemory(n uint64) string {
	return fmt.Sprintf("%.1f MB", float64(n)/1024/1024)
}

// FilterCategory returns the records labeled with the given category.
func FilterCategory(records []Record, cat Category) []Record {
	var out []Record
	for _, r := range records {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

// Search returns records whose name or command line contains the fragment,
// case-insensitively.
func Search(records []Record, fragment string) []Record {
	frag := strings.ToLower(fragment)
	if frag == "" {
		return nil
	}
	var out []Record
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), frag) {
			out = append(out, r)
			continue
		}
		for _, arg := range r.Cmdline {
			if strings.Contains(strings.ToLower(arg), frag) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// MatchName returns records whose name contains the fragment,
// case-insensitively. Unlike Search it ignores the command line; kill-by-name
// keys on the process name alone.
func MatchName(records []Record, fragment string) []Record {
	frag := strings.ToLower(fragment)
	if frag == "" {
		return nil
	}
	var out []Record
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), frag) {
			out = append(out, r)
		}
	}
	return out
}

// SortByCPU orders records by CPU percent, highest first.
func SortByCPU(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CPUPercent > records[j].CPUPercent
	})
}

// SortByMemory orders records by RSS, highest first.
func SortByMemory(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MemoryRSS > records[j].MemoryRSS
	})
}

// SortByThreads orders records by thread count then CPU, highest first.
// This is the thread monitor's display order.
func SortByThreads(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].ThreadCount != records[j].ThreadCount {
			return records[i].ThreadCount > records[j].ThreadCount
		}
		return records[i].CPUPercent > records[j].CPUPercent
	})
}

// Top returns the first n records (the slice itself when shorter).
func Top(records []Record, n int) []Record {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}
