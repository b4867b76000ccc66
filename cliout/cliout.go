package cliout

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault is the default human-readable format.
	FormatDefault Format = "default"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
)

// ANSI color codes for consistent styling
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
)

// Unicode symbols with ASCII fallbacks for terminals that can't render them.
const (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"

	ASCIICheck   = "[+]"
	ASCIICross   = "[-]"
	ASCIIWarning = "[!]"
	ASCIIInfo    = "[i]"
)

var (
	// mu protects the global state below.
	mu           sync.RWMutex
	globalFormat = FormatDefault
	noColor      = !isTerminal()
)

// isTerminal reports whether stdout is attached to a terminal. Piped output
// gets no color codes.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// supportsUnicode detects whether the terminal can display Unicode symbols.
// Unix terminals generally can; legacy Windows consoles cannot.
var supportsUnicode = detectUnicodeSupport()

func detectUnicodeSupport() bool {
	if runtime.GOOS != "windows" {
		return true
	}
	// Windows Terminal, VS Code, ConEmu, and PowerShell handle Unicode fine.
	if os.Getenv("WT_SESSION") != "" || os.Getenv("TERM_PROGRAM") == "vscode" {
		return true
	}
	if os.Getenv("ConEmuPID") != "" || os.Getenv("PSModulePath") != "" {
		return true
	}
	return os.Getenv("TERM") != ""
}

func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// ForceColor enables color output regardless of terminal detection.
func ForceColor() {
	mu.Lock()
	noColor = false
	mu.Unlock()
}

// NoColor disables color output.
func NoColor() {
	mu.Lock()
	noColor = true
	mu.Unlock()
}

func getNoColor() bool {
	mu.RLock()
	defer mu.RUnlock()
	return noColor
}

// colorize wraps text in a color code unless colors are disabled.
func colorize(color, text string) string {
	if getNoColor() {
		return text
	}
	return color + text + Reset
}

// SetFormat sets the global output format.
func SetFormat(format string) error {
	mu.Lock()
	defer mu.Unlock()
	switch format {
	case "default", "":
		globalFormat = FormatDefault
	case "json":
		globalFormat = FormatJSON
	default:
		return fmt.Errorf("invalid output format: %s (valid options: default, json)", format)
	}
	return nil
}

// GetFormat returns the current output format.
func GetFormat() Format {
	mu.RLock()
	defer mu.RUnlock()
	return globalFormat
}

// IsJSON returns true if the output format is JSON.
func IsJSON() bool {
	return GetFormat() == FormatJSON
}

// PrintJSON prints data as indented JSON to stdout.
func PrintJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Print outputs data in the configured format. For the default format it
// calls the formatter; for JSON it marshals the data object.
func Print(data interface{}, formatter func()) error {
	if IsJSON() {
		return PrintJSON(data)
	}
	formatter()
	return nil
}

// Header prints a bold header with a divider.
func Header(text string) {
	fmt.Printf("\n%s\n", colorize(Bold+Cyan, "====== "+text+" ======"))
}

// Success prints a success message with a green checkmark.
func Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", colorize(BrightGreen, getIcon(SymbolCheck, ASCIICheck)), msg)
}

// Error prints an error message with a red cross.
func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", colorize(BrightRed, getIcon(SymbolCross, ASCIICross)), msg)
}

// Warning prints a warning message with a yellow triangle.
func Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s  %s\n", colorize(BrightYellow, getIcon(SymbolWarning, ASCIIWarning)), msg)
}

// Info prints an info message with a blue info icon.
func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s  %s\n", colorize(BrightBlue, getIcon(SymbolInfo, ASCIIInfo)), msg)
}

// Plain prints plain text without any styling.
func Plain(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Item prints an indented item.
func Item(format string, args ...interface{}) {
	fmt.Printf("   %s\n", fmt.Sprintf(format, args...))
}

// Label prints a label and value pair.
func Label(label, value string) {
	fmt.Printf("   %s %s\n", colorize(Dim, fmt.Sprintf("%-12s", label+":")), value)
}

// Hint prints compact hints on a single dim line with bullet separators.
func Hint(hints ...string) {
	if len(hints) == 0 {
		return
	}
	fmt.Printf("%s\n", colorize(Dim, strings.Join(hints, " • ")))
}

// Status colorizes a short text by port/process status: OCCUPIED red,
// FREE green, WARN/WARNING yellow, anything else unstyled.
func Status(text, status string) string {
	switch strings.ToUpper(status) {
	case "OCCUPIED":
		return colorize(Red, text)
	case "FREE":
		return colorize(Green, text)
	case "WARN", "WARNING":
		return colorize(Yellow, text)
	default:
		return text
	}
}

// Confirm prompts the user for confirmation and returns true if they confirm.
// Returns true immediately in JSON mode (non-interactive).
func Confirm(message string) bool {
	if IsJSON() {
		return true
	}
	fmt.Printf("%s [y/N]: ", colorize(BrightYellow, message))
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// ClearScreen clears the terminal and homes the cursor. Monitors call this
// before each redraw.
func ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// ResetTerminal emits a style reset so an interrupted monitor never leaves
// the terminal colored.
func ResetTerminal() {
	if !getNoColor() {
		fmt.Print(Reset)
	}
}
