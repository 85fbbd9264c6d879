package commands

import (
	"fmt"
	"io"

	"github.com/hay-kot/lia/internal/core/diag"
	"github.com/hay-kot/lia/internal/core/styles"
	"github.com/hay-kot/lia/internal/core/task"
)

// renderer prints tasks for humans. Styling applies only on a terminal.
type renderer struct {
	w      io.Writer
	color  bool
	layout string
}

func newRenderer(w io.Writer, dateLayout string) renderer {
	return renderer{w: w, color: diag.IsTerminal(w), layout: dateLayout}
}

func (r renderer) task(t task.Task) string {
	s := t.Format(r.layout)
	if !r.color {
		return s
	}
	if t.IsDone() {
		return styles.DoneStyle.Render(s)
	}
	return styles.PendingStyle.Render(s)
}

func (r renderer) numbered(n int, t task.Task) string {
	idx := fmt.Sprintf("%d.", n)
	if r.color {
		idx = styles.IndexStyle.Render(idx)
	}
	return idx + r.task(t)
}

func (r renderer) header(s string) {
	if r.color {
		s = styles.HeaderStyle.Render(s)
	}
	_, _ = fmt.Fprintln(r.w, s)
}

func (r renderer) muted(s string) {
	if r.color {
		s = styles.MutedStyle.Render(s)
	}
	_, _ = fmt.Fprintln(r.w, s)
}

func (r renderer) success(s string) {
	if r.color {
		s = styles.SuccessStyle.Render(s)
	}
	_, _ = fmt.Fprintln(r.w, s)
}

func (r renderer) line(s string) {
	_, _ = fmt.Fprintln(r.w, s)
}

// confirmation prints msg, the affected task indented, and optionally the
// new list size.
func (r renderer) confirmation(msg string, t task.Task, count int, showCount bool) {
	r.header(msg)
	r.line("  " + r.task(t))
	if showCount {
		r.muted(countLine(count))
	}
}

func countLine(n int) string {
	if n == 1 {
		return "Now you have 1 task in the list."
	}
	return fmt.Sprintf("Now you have %d tasks in the list.", n)
}
