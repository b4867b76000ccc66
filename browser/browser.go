// Package browser launches URLs in the user's default web browser. It is
// used to open the metrics page when a monitor runs with --metrics-addr
// --open. Launch failures are non-critical; the URL is printed either way.
package browser

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/browser"
)

func init() {
	// pkg/browser forwards the browser process's chatter to stdout/stderr
	// by default, which would corrupt monitor redraws.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Open launches the URL in the system default browser. Only http and https
// URLs are accepted.
func Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("invalid URL scheme: URL must start with http:// or https://")
	}
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("could not open browser: %w", err)
	}
	return nil
}
