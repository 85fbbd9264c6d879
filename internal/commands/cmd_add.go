package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/lia/internal/core/task"
	"github.com/hay-kot/lia/internal/core/validate"
	"github.com/hay-kot/lia/internal/lia"
)

// AddCmd implements the todo, deadline and event commands.
type AddCmd struct {
	flags *Flags
	app   *lia.App

	// deadline flags
	by string

	// event flags
	from string
	to   string
}

// NewAddCmd creates the commands that add tasks.
func NewAddCmd(flags *Flags, app *lia.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the todo, deadline and event commands to the application.
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "todo",
			Usage:     "Add a to-do",
			UsageText: "lia todo <description>",
			Description: `Adds a plain to-do with no date.

Examples:
  lia todo read book`,
			Action: cmd.runToDo,
		},
		&cli.Command{
			Name:      "deadline",
			Usage:     "Add a task with a due date",
			UsageText: "lia deadline --by \"yyyy-MM-dd HHmm\" <description>",
			Description: `Adds a task that must be done by a point in time.

Dates use the yyyy-MM-dd HHmm format with a 24-hour clock.

Examples:
  lia deadline --by "2019-12-02 1800" submit report`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "by",
					Usage:       "due date (yyyy-MM-dd HHmm)",
					Required:    true,
					Destination: &cmd.by,
				},
			},
			Action: cmd.runDeadline,
		},
		&cli.Command{
			Name:      "event",
			Usage:     "Add an event with a start and end",
			UsageText: "lia event --from \"yyyy-MM-dd HHmm\" --to \"yyyy-MM-dd HHmm\" <description>",
			Description: `Adds an event spanning two points in time.

Dates use the yyyy-MM-dd HHmm format with a 24-hour clock.

Examples:
  lia event --from "2019-12-01 1400" --to "2019-12-01 1500" team sync`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "from",
					Usage:       "start (yyyy-MM-dd HHmm)",
					Required:    true,
					Destination: &cmd.from,
				},
				&cli.StringFlag{
					Name:        "to",
					Usage:       "end (yyyy-MM-dd HHmm)",
					Required:    true,
					Destination: &cmd.to,
				},
			},
			Action: cmd.runEvent,
		},
	)

	return app
}

func (cmd *AddCmd) runToDo(ctx context.Context, c *cli.Command) error {
	desc, err := description(c)
	if err != nil {
		return err
	}

	return cmd.add(ctx, c, task.NewToDo(desc))
}

func (cmd *AddCmd) runDeadline(ctx context.Context, c *cli.Command) error {
	desc, err := description(c)
	if err != nil {
		return err
	}

	by, err := task.ParseDateTime(cmd.by)
	if err != nil {
		return err
	}

	return cmd.add(ctx, c, task.NewDeadline(desc, by))
}

func (cmd *AddCmd) runEvent(ctx context.Context, c *cli.Command) error {
	desc, err := description(c)
	if err != nil {
		return err
	}

	from, err := task.ParseDateTime(cmd.from)
	if err != nil {
		return err
	}

	to, err := task.ParseDateTime(cmd.to)
	if err != nil {
		return err
	}

	return cmd.add(ctx, c, task.NewEvent(desc, from, to))
}

func (cmd *AddCmd) add(ctx context.Context, c *cli.Command, t task.Task) error {
	cmd.app.Tasks.Add(t)
	log.Info().Ctx(ctx).Str("kind", string(t.Kind())).Msg("task added")

	r := newRenderer(c.Root().Writer, cmd.app.Config.Display.DateFormat)
	r.confirmation("Got it. I've added this task:", t, cmd.app.Tasks.Len(), true)
	return nil
}

// description joins the positional arguments and validates the result.
func description(c *cli.Command) (string, error) {
	desc := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if err := validate.DescriptionField("description", desc); err != nil {
		return "", fmt.Errorf("invalid %s: %w", c.Name, err)
	}
	return desc, nil
}
