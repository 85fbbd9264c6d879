package flatfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/lia/internal/core/diag"
	"github.com/hay-kot/lia/internal/core/task"
)

func newTestStore(t *testing.T, path string) (*Store, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return New(path, diag.New(&out), zerolog.Nop()), &out
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fileLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

func wallClock(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// assertSameTasks compares kinds, descriptions, flags and dates in order.
func assertSameTasks(t *testing.T, want, got []task.Task) {
	t.Helper()
	require.Len(t, got, len(want))

	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Kind(), g.Kind(), "task %d kind", i)
		assert.Equal(t, w.Description(), g.Description(), "task %d description", i)
		assert.Equal(t, w.IsDone(), g.IsDone(), "task %d done", i)

		switch wt := w.(type) {
		case *task.Deadline:
			gt, ok := g.(*task.Deadline)
			require.True(t, ok, "task %d type", i)
			assert.True(t, wt.By.Equal(gt.By), "task %d by: want %v, got %v", i, wt.By, gt.By)
		case *task.Event:
			gt, ok := g.(*task.Event)
			require.True(t, ok, "task %d type", i)
			assert.True(t, wt.From.Equal(gt.From), "task %d from: want %v, got %v", i, wt.From, gt.From)
			assert.True(t, wt.To.Equal(gt.To), "task %d to: want %v, got %v", i, wt.To, gt.To)
		}
	}
}

func TestLoad_Example(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	lines := []string{
		"T | 1 | read book",
		"D | 0 | submit report | 2019-12-02 1800",
		"E | 1 | team sync | 2019-12-01 1400 | 2019-12-01 1500",
	}
	writeLines(t, path, lines...)

	store, out := newTestStore(t, path)

	tasks, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, out.String(), "valid file produces no warnings")

	todo := task.NewToDo("read book")
	todo.MarkDone()
	event := task.NewEvent("team sync", wallClock(2019, 12, 1, 14, 0), wallClock(2019, 12, 1, 15, 0))
	event.MarkDone()

	assertSameTasks(t, []task.Task{
		todo,
		task.NewDeadline("submit report", wallClock(2019, 12, 2, 18, 0)),
		event,
	}, tasks)

	store.Save(tasks)
	assert.Equal(t, lines, fileLines(t, path), "re-encoding reproduces the lines verbatim")
}

func TestRoundTrip(t *testing.T) {
	doneDeadline := task.NewDeadline("pay rent", wallClock(2024, 3, 1, 9, 0))
	doneDeadline.MarkDone()

	tests := []struct {
		name  string
		tasks []task.Task
	}{
		{"empty", []task.Task{}},
		{"single todo", []task.Task{task.NewToDo("buy milk")}},
		{
			name: "mixed kinds",
			tasks: []task.Task{
				task.NewToDo("buy milk"),
				doneDeadline,
				task.NewEvent("conference", wallClock(2024, 5, 6, 8, 30), wallClock(2024, 5, 8, 17, 45)),
			},
		},
		{
			name: "event ending before it starts",
			tasks: []task.Task{
				task.NewEvent("backwards", wallClock(2024, 5, 8, 17, 45), wallClock(2024, 5, 6, 8, 30)),
			},
		},
		{
			name: "deadline in the past",
			tasks: []task.Task{
				task.NewDeadline("ancient", wallClock(1970, 1, 1, 0, 0)),
			},
		},
		{
			name: "pipes at description edges",
			tasks: []task.Task{
				task.NewDeadline("|", wallClock(2019, 12, 2, 18, 0)),
				task.NewDeadline("x|", wallClock(2019, 12, 2, 18, 0)),
				task.NewEvent("|x", wallClock(2019, 12, 1, 14, 0), wallClock(2019, 12, 1, 15, 0)),
				task.NewToDo("x |"),
			},
		},
		{
			name: "descriptions with pipes and unicode",
			tasks: []task.Task{
				task.NewToDo("a|b without spaces"),
				task.NewToDo("café ☕ run"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.txt")
			store, out := newTestStore(t, path)

			require.NoError(t, store.write(tt.tasks))

			got, err := store.Load()
			require.NoError(t, err)
			assert.Empty(t, out.String())
			assertSameTasks(t, tt.tasks, got)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.txt")
	store, out := newTestStore(t, path)

	tasks, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Empty(t, out.String())

	info, err := os.Stat(path)
	require.NoError(t, err, "store file should be created")
	assert.False(t, info.IsDir())
	assert.Zero(t, info.Size())
}

func TestLoad_SkipsBadLines(t *testing.T) {
	tests := []struct {
		name     string
		bad      string
		wantWarn string
	}{
		{"todo missing description", "T | 1", "Warning: Corrupted data in file. Skipping line: T | 1"},
		{"todo extra field", "T | 0 | a | b", "Corrupted data"},
		{"deadline missing date", "D | 0 | report", "Corrupted data"},
		{"deadline bad date", "D | 0 | desc | not-a-date", "Warning: Corrupted data in file. Skipping line: D | 0 | desc | not-a-date"},
		{"deadline colon time", "D | 0 | desc | 2019-12-02 18:00", "Corrupted data"},
		{"event missing end", "E | 0 | sync | 2019-12-01 1400", "Corrupted data"},
		{"event bad end", "E | 0 | sync | 2019-12-01 1400 | tomorrow", "Corrupted data"},
		{"empty description", "T | 0 | ", "Corrupted data"},
		{"unknown tag", "X | 0 | mystery", "Warning: Unrecognized task type in file. Skipping line: X | 0 | mystery"},
		{"lowercase tag", "t | 0 | lower", "Unrecognized task type"},
		{"no delimiter", "garbage", "Unrecognized task type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.txt")
			writeLines(t, path,
				"T | 0 | first",
				tt.bad,
				"D | 1 | second | 2020-01-01 0900",
			)

			store, out := newTestStore(t, path)
			reporter := store.diag

			tasks, err := store.Load()
			require.NoError(t, err, "bad lines never fail the load")
			require.Len(t, tasks, 2)
			assert.Equal(t, "first", tasks[0].Description())
			assert.Equal(t, "second", tasks[1].Description())

			assert.Equal(t, 1, reporter.Warnings(), "exactly one warning")
			assert.Contains(t, out.String(), tt.wantWarn)
		})
	}
}

func TestLoad_BlankLinesWarn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeLines(t, path, "T | 0 | a", "", "   ", "T | 0 | b")

	store, out := newTestStore(t, path)

	tasks, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, 2, store.diag.Warnings())
	assert.Equal(t,
		"Warning: Unrecognized task type in file. Skipping line: \n"+
			"Warning: Unrecognized task type in file. Skipping line:    \n",
		out.String())
}

func TestLoad_DaylightSavingWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })

	lines := []string{
		"D | 0 | early flight | 2024-03-10 0230",
		"E | 0 | night shift | 2024-11-03 0130 | 2024-11-03 0145",
	}

	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeLines(t, path, lines...)
	store, out := newTestStore(t, path)

	tasks, err := store.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Empty(t, out.String())

	store.Save(tasks)
	assert.Equal(t, lines, fileLines(t, path))
}

func TestLoad_CompletionFlag(t *testing.T) {
	tests := []struct {
		flag string
		want bool
	}{
		{"1", true},
		{"0", false},
		{"2", false},
		{"true", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("flag "+tt.flag, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.txt")
			writeLines(t, path, "T | "+tt.flag+" | thing")

			store, _ := newTestStore(t, path)

			tasks, err := store.Load()
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.want, tasks[0].IsDone())
		})
	}
}

func TestLoad_WindowsLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("T | 1 | a\r\nD | 0 | b | 2019-12-02 1800\r\n"), 0o644))

	store, out := newTestStore(t, path)

	tasks, err := store.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Description())
	assert.Empty(t, out.String())
}

func TestLoad_IOFailure(t *testing.T) {
	t.Run("path is a directory", func(t *testing.T) {
		path := t.TempDir()
		store, _ := newTestStore(t, path)

		tasks, err := store.Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStorageLoadFailed)
		assert.Nil(t, tasks)
	})

	t.Run("parent is a file", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

		store, _ := newTestStore(t, filepath.Join(parent, "tasks.txt"))

		tasks, err := store.Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStorageLoadFailed)
		assert.Nil(t, tasks)
	})
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeLines(t, path, "T | 0 | stale one", "T | 0 | stale two", "T | 0 | stale three")

	store, out := newTestStore(t, path)
	store.Save([]task.Task{task.NewToDo("fresh")})

	assert.Equal(t, []string{"T | 0 | fresh"}, fileLines(t, path))
	assert.Empty(t, out.String())
}

func TestSave_EmptyListTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeLines(t, path, "T | 0 | stale")

	store, _ := newTestStore(t, path)
	store.Save(nil)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSave_LineBreaks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	store, _ := newTestStore(t, path)

	store.Save([]task.Task{task.NewToDo("a"), task.NewToDo("b")})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	nl := lineBreak()
	assert.Equal(t, "T | 0 | a"+nl+"T | 0 | b"+nl, string(data))
}

func TestSave_FailureIsReportedNotReturned(t *testing.T) {
	path := t.TempDir() // a directory cannot be opened for writing
	store, out := newTestStore(t, path)

	assert.Error(t, store.write([]task.Task{task.NewToDo("a")}))

	assert.NotPanics(t, func() {
		store.Save([]task.Task{task.NewToDo("a")})
	})
	assert.Contains(t, out.String(), "Error saving tasks to file:")
}

func TestDecodeLine_Errors(t *testing.T) {
	_, err := decodeLine("D | 0 | desc | 2019-02-30 1800")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorIs(t, err, task.ErrInvalidDateFormat)

	_, err = decodeLine("E | 0 | desc")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.NotErrorIs(t, err, task.ErrInvalidDateFormat)

	_, err = decodeLine("Q | 0 | desc")
	assert.ErrorIs(t, err, errUnrecognizedKind)
	assert.NotErrorIs(t, err, ErrInvalidFormat)
}
