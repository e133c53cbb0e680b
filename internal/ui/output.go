// Package ui provides consistent styled output for the installer CLI.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Writer provides styled output methods that respect color settings.
type Writer struct {
	out    io.Writer
	errOut io.Writer

	success *color.Color
	warning *color.Color
	failure *color.Color
	info    *color.Color
	bold    *color.Color
}

// NewWriter creates a Writer that writes to stdout/stderr.
// Color is disabled when noColor is true, the NO_COLOR env var is set,
// or stdout is not a terminal.
func NewWriter(noColor bool) *Writer {
	return newWriter(os.Stdout, os.Stderr, noColor || color.NoColor || os.Getenv("NO_COLOR") != "")
}

// NewWriterWithOutputs creates a Writer with custom output destinations.
// Intended for testing.
func NewWriterWithOutputs(out, errOut io.Writer, noColor bool) *Writer {
	return newWriter(out, errOut, noColor)
}

// Discard returns a Writer that drops everything.
func Discard() *Writer {
	return newWriter(io.Discard, io.Discard, true)
}

func newWriter(out, errOut io.Writer, noColor bool) *Writer {
	w := &Writer{
		out:     out,
		errOut:  errOut,
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
		bold:    color.New(color.Bold),
	}

	for _, c := range []*color.Color{w.success, w.warning, w.failure, w.info, w.bold} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	return w
}

// Out returns the standard output destination.
func (w *Writer) Out() io.Writer {
	return w.out
}

// ErrOut returns the error output destination.
func (w *Writer) ErrOut() io.Writer {
	return w.errOut
}

// Success prints a success message with a green checkmark prefix.
func (w *Writer) Success(msg string) {
	writeLine(w.out, w.success.Sprint("✓"), msg)
}

// Warning prints a warning message to stderr with a yellow prefix.
func (w *Writer) Warning(msg string) {
	writeLine(w.errOut, w.warning.Sprint("warning:"), msg)
}

// Error prints an error message to stderr with a red prefix.
func (w *Writer) Error(msg string) {
	writeLine(w.errOut, w.failure.Sprint("error:"), msg)
}

// Info prints an informational message with a cyan prefix.
func (w *Writer) Info(msg string) {
	writeLine(w.out, w.info.Sprint("info:"), msg)
}

// Bold prints text in bold.
func (w *Writer) Bold(msg string) string {
	return w.bold.Sprint(msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Infof prints a formatted informational message.
func (w *Writer) Infof(format string, args ...any) {
	w.Info(fmt.Sprintf(format, args...))
}

func writeLine(out io.Writer, prefix, msg string) {
	if _, err := fmt.Fprintf(out, "%s %s\n", prefix, msg); err != nil {
		// Best-effort output; if stderr fails there's nothing useful to do.
		return
	}
}
