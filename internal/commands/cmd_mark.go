package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/lia/internal/core/logging"
	"github.com/hay-kot/lia/internal/lia"
)

// MarkCmd implements the mark and unmark commands.
type MarkCmd struct {
	flags *Flags
	app   *lia.App
}

// NewMarkCmd creates the mark and unmark commands.
func NewMarkCmd(flags *Flags, app *lia.App) *MarkCmd {
	return &MarkCmd{flags: flags, app: app}
}

// Register adds the mark and unmark commands to the application.
func (cmd *MarkCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "mark",
			Aliases:   []string{"done"},
			Usage:     "Mark a task as done",
			UsageText: "lia mark <number>",
			Action:    cmd.runMark,
		},
		&cli.Command{
			Name:      "unmark",
			Aliases:   []string{"undo"},
			Usage:     "Mark a task as not done",
			UsageText: "lia unmark <number>",
			Action:    cmd.runUnmark,
		},
	)

	return app
}

func (cmd *MarkCmd) runMark(ctx context.Context, c *cli.Command) error {
	n, err := taskNumber(c)
	if err != nil {
		return err
	}

	t, err := cmd.app.Tasks.Mark(n)
	if err != nil {
		return fmt.Errorf("mark task: %w", err)
	}
	log.Info().Ctx(logging.WithTaskNumber(ctx, n)).Msg("task marked done")

	r := newRenderer(c.Root().Writer, cmd.app.Config.Display.DateFormat)
	r.confirmation("Nice! I've marked this task as done:", t, 0, false)
	return nil
}

func (cmd *MarkCmd) runUnmark(ctx context.Context, c *cli.Command) error {
	n, err := taskNumber(c)
	if err != nil {
		return err
	}

	t, err := cmd.app.Tasks.Unmark(n)
	if err != nil {
		return fmt.Errorf("unmark task: %w", err)
	}
	log.Info().Ctx(logging.WithTaskNumber(ctx, n)).Msg("task marked not done")

	r := newRenderer(c.Root().Writer, cmd.app.Config.Display.DateFormat)
	r.confirmation("OK, I've marked this task as not done yet:", t, 0, false)
	return nil
}

// taskNumber parses the first positional argument as a 1-based task number.
func taskNumber(c *cli.Command) (int, error) {
	if c.NArg() < 1 {
		return 0, fmt.Errorf("usage: lia %s <number>", c.Name)
	}

	arg := c.Args().Get(0)
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task number %q", arg)
	}

	return n, nil
}
