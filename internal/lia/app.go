// Package lia wires the task list, its storage and configuration into the
// services consumed by the CLI commands.
package lia

import (
	"github.com/hay-kot/lia/internal/core/config"
)

// App is the central entry point for all lia operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks  *TaskService
	Config *config.Config
}

// NewApp constructs an App from explicit dependencies.
func NewApp(tasks *TaskService, cfg *config.Config) *App {
	return &App{
		Tasks:  tasks,
		Config: cfg,
	}
}
