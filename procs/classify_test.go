package procs

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		pid      int32
		procName string
		username string
		want     Category
	}{
		{"pid zero is idle", 0, "System Idle Process", "", CategorySystemIdle},
		{"pid one is system", 1, "systemd", "root", CategorySystem},
		{"pid four is system", 4, "System", "SYSTEM", CategorySystem},
		{"no owner is background", 100, "kworker/0:1", "", CategoryBackground},
		{"service in name", 1234, "nginx-service", "www-data", CategoryServices},
		{"service uppercase name", 1234, "MyService.exe", "alice", CategoryServices},
		{"system account", 1234, "svchost.exe", "SYSTEM", CategoryServices},
		{"root account", 1234, "sshd", "root", CategoryServices},
		{"root mixed case", 1234, "sshd", "Root", CategoryServices},
		{"nt authority account", 1234, "lsass.exe", "NT AUTHORITY\\LOCAL SERVICE", CategoryServices},
		{"plain user process", 4242, "firefox", "alice", CategoryUser},
		{"user named rooter is not root", 4242, "vim", "rooter", CategoryUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.pid, tt.procName, tt.username)
			if got != tt.want {
				t.Errorf("Categorize(%d, %q, %q) = %q, want %q",
					tt.pid, tt.procName, tt.username, got, tt.want)
			}
		})
	}
}

func TestCategoriesExcludesIdle(t *testing.T) {
	for _, cat := range Categories() {
		if cat == CategorySystemIdle {
			t.Fatal("Categories() must not list the idle pseudo-category")
		}
	}
	if len(Categories()) != 5 {
		t.Errorf("Categories() returned %d entries, want 5", len(Categories()))
	}
}
