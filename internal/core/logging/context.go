package logging

import "context"

type contextKey string

const (
	commandKey    contextKey = "command"
	taskNumberKey contextKey = "task_number"
)

// WithCommand adds the running CLI command name to the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// WithTaskNumber adds the 1-based task number a command targets.
func WithTaskNumber(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, taskNumberKey, n)
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}

// GetTaskNumber retrieves the task number from the context.
// Returns 0 if not present.
func GetTaskNumber(ctx context.Context) int {
	if n, ok := ctx.Value(taskNumberKey).(int); ok {
		return n
	}
	return 0
}
