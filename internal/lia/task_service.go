package lia

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/lia/internal/core/task"
)

// ErrTaskNotFound is returned when a task number is outside the list.
var ErrTaskNotFound = errors.New("task not found")

// Storage persists the full task list.
type Storage interface {
	// Load returns the stored tasks in order.
	Load() ([]task.Task, error)

	// Save overwrites the stored tasks. Failures are handled by the storage.
	Save(tasks []task.Task)
}

// Match is a task returned by Find along with its list number.
type Match struct {
	Number int
	Task   task.Task
}

// TaskService owns the in-memory task list. Task numbers are 1-based.
// Every mutation writes the whole list back through Storage.
type TaskService struct {
	storage Storage
	tasks   []task.Task
	log     zerolog.Logger
}

// NewTaskService creates a TaskService with an empty list. Call Load to read
// the stored tasks.
func NewTaskService(storage Storage, log zerolog.Logger) *TaskService {
	return &TaskService{
		storage: storage,
		tasks:   []task.Task{},
		log:     log.With().Str("component", "task-service").Logger(),
	}
}

// Load replaces the in-memory list with the stored tasks.
func (s *TaskService) Load() error {
	tasks, err := s.storage.Load()
	if err != nil {
		return err
	}

	s.tasks = tasks
	return nil
}

// List returns the tasks in order. The slice must not be modified.
func (s *TaskService) List() []task.Task {
	return s.tasks
}

// Len returns the number of tasks.
func (s *TaskService) Len() int {
	return len(s.tasks)
}

// Get returns task n.
func (s *TaskService) Get(n int) (task.Task, error) {
	i, err := s.index(n)
	if err != nil {
		return nil, err
	}
	return s.tasks[i], nil
}

// Add appends t and saves.
func (s *TaskService) Add(t task.Task) {
	s.tasks = append(s.tasks, t)
	s.log.Debug().Str("kind", string(t.Kind())).Int("count", len(s.tasks)).Msg("task added")
	s.save()
}

// Delete removes task n, saves, and returns the removed task.
func (s *TaskService) Delete(n int) (task.Task, error) {
	i, err := s.index(n)
	if err != nil {
		return nil, err
	}

	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.log.Debug().Int("number", n).Int("count", len(s.tasks)).Msg("task deleted")
	s.save()

	return removed, nil
}

// Mark marks task n as done and saves.
func (s *TaskService) Mark(n int) (task.Task, error) {
	return s.update(n, task.Task.MarkDone)
}

// Unmark marks task n as not done and saves.
func (s *TaskService) Unmark(n int) (task.Task, error) {
	return s.update(n, task.Task.MarkUndone)
}

// Find returns tasks whose description contains keyword, ignoring case.
func (s *TaskService) Find(keyword string) []Match {
	needle := strings.ToLower(strings.TrimSpace(keyword))

	var matches []Match
	for i, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Description()), needle) {
			matches = append(matches, Match{Number: i + 1, Task: t})
		}
	}

	return matches
}

// Clear removes every task, saves, and returns how many were removed.
func (s *TaskService) Clear() int {
	n := len(s.tasks)
	s.tasks = []task.Task{}
	s.log.Debug().Int("removed", n).Msg("tasks cleared")
	s.save()
	return n
}

func (s *TaskService) update(n int, fn func(task.Task)) (task.Task, error) {
	i, err := s.index(n)
	if err != nil {
		return nil, err
	}

	t := s.tasks[i]
	fn(t)
	s.save()

	return t, nil
}

func (s *TaskService) index(n int) (int, error) {
	if n < 1 || n > len(s.tasks) {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrTaskNotFound, n, len(s.tasks))
	}
	return n - 1, nil
}

func (s *TaskService) save() {
	s.storage.Save(s.tasks)
}
