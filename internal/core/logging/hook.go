package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the command name and task number from context and adds
// them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if name := GetCommand(ctx); name != "" {
		e.Str("command", name)
	}

	if n := GetTaskNumber(ctx); n != 0 {
		e.Int("task_number", n)
	}
}
