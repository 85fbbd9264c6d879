// Package flatfile persists tasks to a line-oriented text file, one task per
// line with pipe-delimited fields:
//
//	T | 1 | read book
//	D | 0 | submit report | 2019-12-02 1800
//	E | 1 | team sync | 2019-12-01 1400 | 2019-12-01 1500
//
// Loading is best effort per line: corrupted lines are skipped with a warning.
// Only file-level I/O failures abort a load. Saving never fails the caller.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/lia/internal/core/diag"
	"github.com/hay-kot/lia/internal/core/task"
)

var (
	// ErrInvalidFormat is returned for a line with a known kind tag but the
	// wrong field count or an unparsable field.
	ErrInvalidFormat = errors.New("invalid task format")

	// ErrStorageLoadFailed is returned when the store cannot be created or read.
	ErrStorageLoadFailed = errors.New("storage load failed")

	errUnrecognizedKind = errors.New("unrecognized task type")
)

// maxLineSize bounds a single stored line.
const maxLineSize = 1024 * 1024

// fieldCounts is the exact field count for each kind tag.
var fieldCounts = map[task.Kind]int{
	task.KindToDo:     3,
	task.KindDeadline: 4,
	task.KindEvent:    5,
}

// Store reads and writes the task file at a fixed path. It keeps no task
// state between calls.
type Store struct {
	path string
	diag *diag.Reporter
	log  zerolog.Logger
}

// New creates a Store for path. Skipped lines and failed saves are reported
// to reporter and logged to log.
func New(path string, reporter *diag.Reporter, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		diag: reporter,
		log:  log.With().Str("path", path).Logger(),
	}
}

// Path returns the file path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load reads all tasks from the store in file order. A missing file is created
// empty, along with its parent directories. Any I/O failure returns an error
// wrapping ErrStorageLoadFailed and no tasks.
func (s *Store) Load() ([]task.Task, error) {
	tasks, err := s.load()
	if err != nil {
		s.log.Error().Err(err).Msg("load tasks")
		return nil, fmt.Errorf("%w: %w", ErrStorageLoadFailed, err)
	}

	s.log.Debug().Int("count", len(tasks)).Msg("loaded tasks")
	return tasks, nil
}

func (s *Store) load() ([]task.Task, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []task.Task{}, s.create()
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	tasks := []task.Task{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		t, err := decodeLine(line)
		switch {
		case errors.Is(err, errUnrecognizedKind):
			s.log.Warn().Int("line", lineNo).Str("content", line).Msg("unrecognized task type, skipping line")
			s.diag.Warnf("Warning: Unrecognized task type in file. Skipping line: %s", line)
		case err != nil:
			s.log.Warn().Int("line", lineNo).Str("content", line).Err(err).Msg("corrupted line, skipping")
			s.diag.Warnf("Warning: Corrupted data in file. Skipping line: %s", line)
		default:
			tasks = append(tasks, t)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return tasks, nil
}

func (s *Store) create() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("create store file: %w", err)
	}

	s.log.Info().Msg("created empty task store")
	return f.Close()
}

// decodeLine parses a single stored line.
func decodeLine(line string) (task.Task, error) {
	fields := strings.Split(line, task.Delimiter)

	kind := task.Kind(fields[0])
	want, ok := fieldCounts[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnrecognizedKind, fields[0])
	}

	if len(fields) != want {
		return nil, fmt.Errorf("%w: %s line needs %d fields, got %d", ErrInvalidFormat, kind, want, len(fields))
	}

	description := fields[2]
	if description == "" {
		return nil, fmt.Errorf("%w: empty description", ErrInvalidFormat)
	}

	var t task.Task
	switch kind {
	case task.KindToDo:
		t = task.NewToDo(description)
	case task.KindDeadline:
		by, err := task.ParseDateTime(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		t = task.NewDeadline(description, by)
	case task.KindEvent:
		from, err := task.ParseDateTime(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		to, err := task.ParseDateTime(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		t = task.NewEvent(description, from, to)
	}

	if fields[1] == "1" {
		t.MarkDone()
	}

	return t, nil
}

// Save overwrites the store with tasks, one line each, in order. A failure is
// reported and logged but not returned; the caller's tasks remain the source
// of truth.
func (s *Store) Save(tasks []task.Task) {
	if err := s.write(tasks); err != nil {
		s.log.Error().Err(err).Int("count", len(tasks)).Msg("save tasks")
		s.diag.Errorf("Error saving tasks to file: %v", err)
		return
	}

	s.log.Debug().Int("count", len(tasks)).Msg("saved tasks")
}

func (s *Store) write(tasks []task.Task) (err error) {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	nl := lineBreak()
	for _, t := range tasks {
		// bufio.Writer errors are sticky and surface on Flush.
		_, _ = w.WriteString(t.FileFormat())
		_, _ = w.WriteString(nl)
	}

	return w.Flush()
}

func lineBreak() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}
