// Package ui holds the ANSI styling helpers shared by the CLI commands.
package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI256 color codes.
const (
	colorAccent  = 110 // blue, section headers
	colorCommand = 252 // light gray, command names
	colorMuted   = 244 // gray, secondary text
	colorOK      = 114 // green, terminal-success statuses
	colorWarn    = 179 // yellow, in-flight statuses
	colorFail    = 174 // red, failures
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderCommand returns s styled as a command name.
func RenderCommand(s string) string { return render(colorCommand, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderStatus colors a pipeline status word: green for terminal
// success, red for failure, yellow for anything still moving.
func RenderStatus(status string) string {
	switch status {
	case "completed", "parsed", "ready", "published":
		return render(colorOK, status)
	case "failed":
		return render(colorFail, status)
	case "pending", "queued", "processing", "uploaded":
		return render(colorWarn, status)
	default:
		return status
	}
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// ShouldUseColor returns true when ANSI colors should be used on stdout.
// It respects NO_COLOR, CLICOLOR_FORCE, CLICOLOR, and TTY detection.
func ShouldUseColor() bool {
	// https://no-color.org: any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	// CLICOLOR_FORCE=1 forces color even without a TTY.
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	// CLICOLOR=0 explicitly disables color.
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	// Default: color if stdout is a terminal.
	return term.IsTerminal(int(os.Stdout.Fd()))
}
