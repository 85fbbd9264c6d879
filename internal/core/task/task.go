// Package task defines the task domain model: to-dos, deadlines and events.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the single-letter tag identifying a task variant in the store.
type Kind string

const (
	KindToDo     Kind = "T"
	KindDeadline Kind = "D"
	KindEvent    Kind = "E"
)

// Delimiter separates fields of a stored task line.
const Delimiter = " | "

// DisplayDateFormat is the default layout used by String.
const DisplayDateFormat = "Jan 02 2006, 3:04PM"

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindToDo, KindDeadline, KindEvent:
		return true
	default:
		return false
	}
}

// Task is the behaviour shared by every task kind.
type Task interface {
	Kind() Kind
	Description() string
	IsDone() bool
	MarkDone()
	MarkUndone()

	// FileFormat renders the task as one store line, without a line break.
	FileFormat() string

	// Format renders the task for display using layout for any dates,
	// e.g. "[D][ ] submit report (by: Dec 02 2019, 6:00PM)".
	Format(layout string) string

	// String is Format with DisplayDateFormat.
	String() string
}

// base holds the fields common to all kinds.
type base struct {
	description string
	done        bool
}

func (b *base) Description() string { return b.description }
func (b *base) IsDone() bool        { return b.done }
func (b *base) MarkDone()           { b.done = true }
func (b *base) MarkUndone()         { b.done = false }

func (b *base) flag() string {
	if b.done {
		return "1"
	}
	return "0"
}

func (b *base) icon() string {
	if b.done {
		return "X"
	}
	return " "
}

func join(fields ...string) string {
	return strings.Join(fields, Delimiter)
}

// ToDo is a task with only a description.
type ToDo struct {
	base
}

// NewToDo creates a not-done ToDo.
func NewToDo(description string) *ToDo {
	return &ToDo{base: base{description: description}}
}

func (t *ToDo) Kind() Kind { return KindToDo }

func (t *ToDo) FileFormat() string {
	return join(string(KindToDo), t.flag(), t.description)
}

func (t *ToDo) Format(string) string {
	return fmt.Sprintf("[%s][%s] %s", KindToDo, t.icon(), t.description)
}

func (t *ToDo) String() string { return t.Format(DisplayDateFormat) }

// Deadline is a task due at a point in time.
type Deadline struct {
	base
	By time.Time
}

// NewDeadline creates a not-done Deadline.
func NewDeadline(description string, by time.Time) *Deadline {
	return &Deadline{base: base{description: description}, By: by}
}

func (d *Deadline) Kind() Kind { return KindDeadline }

func (d *Deadline) FileFormat() string {
	return join(string(KindDeadline), d.flag(), d.description, FormatDateTime(d.By))
}

func (d *Deadline) Format(layout string) string {
	return fmt.Sprintf("[%s][%s] %s (by: %s)", KindDeadline, d.icon(), d.description, d.By.Format(layout))
}

func (d *Deadline) String() string { return d.Format(DisplayDateFormat) }

// Event is a task spanning From to To. The order of From and To is not checked.
type Event struct {
	base
	From time.Time
	To   time.Time
}

// NewEvent creates a not-done Event.
func NewEvent(description string, from, to time.Time) *Event {
	return &Event{base: base{description: description}, From: from, To: to}
}

func (e *Event) Kind() Kind { return KindEvent }

func (e *Event) FileFormat() string {
	return join(string(KindEvent), e.flag(), e.description, FormatDateTime(e.From), FormatDateTime(e.To))
}

func (e *Event) Format(layout string) string {
	return fmt.Sprintf("[%s][%s] %s (from: %s to: %s)", KindEvent, e.icon(), e.description,
		e.From.Format(layout), e.To.Format(layout))
}

func (e *Event) String() string { return e.Format(DisplayDateFormat) }
