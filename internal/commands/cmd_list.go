package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/lia/internal/core/task"
	"github.com/hay-kot/lia/internal/lia"
	"github.com/hay-kot/lia/pkg/iojson"
)

// ListCmd implements the list and find commands.
type ListCmd struct {
	flags *Flags
	app   *lia.App

	// flags
	jsonOutput  bool
	pendingOnly bool
	doneOnly    bool
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags, app *lia.App) *ListCmd {
	return &ListCmd{flags: flags, app: app}
}

// Register adds the list and find commands to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:        "json",
			Usage:       "output as JSON lines",
			Destination: &cmd.jsonOutput,
		}
	}

	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "list",
			Aliases:   []string{"ls"},
			Usage:     "List all tasks",
			UsageText: "lia list [--json] [--pending | --done]",
			Description: `Displays every task with its number. Numbers are used by mark, unmark and delete.

Use --json for one JSON object per line.`,
			Flags: []cli.Flag{
				jsonFlag(),
				&cli.BoolFlag{
					Name:        "pending",
					Usage:       "only tasks not yet done",
					Destination: &cmd.pendingOnly,
				},
				&cli.BoolFlag{
					Name:        "done",
					Usage:       "only tasks already done",
					Destination: &cmd.doneOnly,
				},
			},
			Action: cmd.runList,
		},
		&cli.Command{
			Name:      "find",
			Usage:     "Find tasks by keyword",
			UsageText: "lia find [--json] <keyword>",
			Description: `Lists tasks whose description contains the keyword, ignoring case.
Matches keep their list numbers.`,
			Flags:  []cli.Flag{jsonFlag()},
			Action: cmd.runFind,
		},
	)

	return app
}

// Run lists all tasks. It is also the default action when no command is given.
func (cmd *ListCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.runList(ctx, c)
}

func (cmd *ListCmd) runList(ctx context.Context, c *cli.Command) error {
	if cmd.pendingOnly && cmd.doneOnly {
		return fmt.Errorf("--pending and --done cannot be used together")
	}

	var matches []lia.Match
	for i, t := range cmd.app.Tasks.List() {
		if cmd.pendingOnly && t.IsDone() || cmd.doneOnly && !t.IsDone() {
			continue
		}
		matches = append(matches, lia.Match{Number: i + 1, Task: t})
	}

	return cmd.print(c, matches, "Here are the tasks in your list:", "No tasks in your list.")
}

func (cmd *ListCmd) runFind(ctx context.Context, c *cli.Command) error {
	keyword := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(keyword) == "" {
		return fmt.Errorf("usage: lia find <keyword>")
	}

	matches := cmd.app.Tasks.Find(keyword)
	return cmd.print(c, matches, "Here are the matching tasks in your list:", "No matching tasks found.")
}

func (cmd *ListCmd) print(c *cli.Command, matches []lia.Match, header, empty string) error {
	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, m := range matches {
			if err := iojson.WriteLine(out, newTaskInfo(m)); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	r := newRenderer(out, cmd.app.Config.Display.DateFormat)
	if len(matches) == 0 {
		r.muted(empty)
		return nil
	}

	r.header(header)
	for _, m := range matches {
		r.line(r.numbered(m.Number, m.Task))
	}

	return nil
}

// taskInfo is the JSON output format for lia list --json.
type taskInfo struct {
	Number      int    `json:"number"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	By          string `json:"by,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
}

func newTaskInfo(m lia.Match) taskInfo {
	info := taskInfo{
		Number:      m.Number,
		Kind:        string(m.Task.Kind()),
		Description: m.Task.Description(),
		Done:        m.Task.IsDone(),
	}

	switch t := m.Task.(type) {
	case *task.Deadline:
		info.By = task.FormatDateTime(t.By)
	case *task.Event:
		info.From = task.FormatDateTime(t.From)
		info.To = task.FormatDateTime(t.To)
	}

	return info
}
