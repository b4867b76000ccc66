package browser

import (
	"strings"
	"testing"
)

func TestOpenRejectsNonHTTP(t *testing.T) {
	tests := []string{
		"ftp://example.com",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"example.com",
		"",
	}
	for _, url := range tests {
		err := Open(url)
		if err == nil {
			t.Errorf("Open(%q) accepted a non-http URL", url)
			continue
		}
		if !strings.Contains(err.Error(), "invalid URL scheme") {
			t.Errorf("Open(%q) error = %v", url, err)
		}
	}
}
