// Package output provides terminal output formatting for the autobump CLI:
// status message helpers, the commit listing, and the colored unified diff
// shown before a manifest write. Designed to have minimal dependencies to
// avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	infoColor    = color.New(color.FgCyan).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if
// unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// IsTerminal reports whether stdout is a TTY. Spinners and prompts are
// suppressed when it is not.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Info prints a cyan status line.
func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, infoColor(fmt.Sprintf(format, args...)))
}

// Warn prints a yellow warning line.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnColor(fmt.Sprintf(format, args...)))
}

// Success prints a green success line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successColor(fmt.Sprintf(format, args...)))
}

// Error prints a red error line.
func Error(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, errorColor(fmt.Sprintf(format, args...)))
}
