// Package diag writes user-facing diagnostics (warnings and errors) to the
// console. Output is styled when the destination is a terminal.
package diag

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hay-kot/lia/internal/core/styles"
	"golang.org/x/term"
)

// Reporter writes one diagnostic per line. While held, lines are buffered in
// memory until Flush or Discard is called.
type Reporter struct {
	out      io.Writer
	color    bool
	held     bool
	buf      bytes.Buffer
	warnings int
}

// New creates a Reporter writing to w. Styling is enabled only when w is a
// terminal.
func New(w io.Writer) *Reporter {
	return &Reporter{out: w, color: IsTerminal(w)}
}

// Discarding returns a Reporter that drops everything.
func Discarding() *Reporter {
	return New(io.Discard)
}

// Warn reports a recoverable problem.
func (r *Reporter) Warn(msg string) {
	r.warnings++
	r.write(styles.WarningStyle.Render, msg)
}

// Warnf is Warn with formatting.
func (r *Reporter) Warnf(format string, args ...any) {
	r.Warn(fmt.Sprintf(format, args...))
}

// Error reports a failure the caller chose not to propagate.
func (r *Reporter) Error(msg string) {
	r.write(styles.ErrorStyle.Render, msg)
}

// Errorf is Error with formatting.
func (r *Reporter) Errorf(format string, args ...any) {
	r.Error(fmt.Sprintf(format, args...))
}

// Warnings returns the number of warnings reported so far.
func (r *Reporter) Warnings() int {
	return r.warnings
}

// Hold buffers subsequent diagnostics instead of writing them.
func (r *Reporter) Hold() {
	r.held = true
}

// Flush writes any held diagnostics and stops holding.
func (r *Reporter) Flush() error {
	r.held = false
	if r.buf.Len() == 0 {
		return nil
	}

	_, err := r.buf.WriteTo(r.out)
	return err
}

// Discard drops any held diagnostics and stops holding.
func (r *Reporter) Discard() {
	r.held = false
	r.buf.Reset()
}

func (r *Reporter) write(render func(...string) string, msg string) {
	if r.color {
		msg = render(msg)
	}

	if r.held {
		_, _ = fmt.Fprintln(&r.buf, msg)
		return
	}

	_, _ = fmt.Fprintln(r.out, msg)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
