package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/lia/internal/core/logging"
	"github.com/hay-kot/lia/internal/lia"
)

// DeleteCmd implements the delete and clear commands.
type DeleteCmd struct {
	flags *Flags
	app   *lia.App

	// clear flags
	yes bool

	// confirm asks the user before clearing n tasks.
	confirm func(n int) (bool, error)
}

// NewDeleteCmd creates the delete and clear commands.
func NewDeleteCmd(flags *Flags, app *lia.App) *DeleteCmd {
	return &DeleteCmd{flags: flags, app: app, confirm: confirmClear}
}

// Register adds the delete and clear commands to the application.
func (cmd *DeleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "delete",
			Aliases:   []string{"rm"},
			Usage:     "Delete a task",
			UsageText: "lia delete <number>",
			Description: `Removes a task from the list. Later tasks move up by one number.

Examples:
  lia delete 2`,
			Action: cmd.runDelete,
		},
		&cli.Command{
			Name:      "clear",
			Usage:     "Delete every task",
			UsageText: "lia clear [--yes]",
			Description: `Removes all tasks. Asks for confirmation unless --yes is given.
Without a terminal on stdin, --yes is required.`,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "yes",
					Aliases:     []string{"y"},
					Usage:       "skip the confirmation prompt",
					Destination: &cmd.yes,
				},
			},
			Action: cmd.runClear,
		},
	)

	return app
}

func (cmd *DeleteCmd) runDelete(ctx context.Context, c *cli.Command) error {
	n, err := taskNumber(c)
	if err != nil {
		return err
	}

	t, err := cmd.app.Tasks.Delete(n)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	log.Info().Ctx(logging.WithTaskNumber(ctx, n)).Msg("task deleted")

	r := newRenderer(c.Root().Writer, cmd.app.Config.Display.DateFormat)
	r.confirmation("Noted. I've removed this task:", t, cmd.app.Tasks.Len(), true)
	return nil
}

func (cmd *DeleteCmd) runClear(ctx context.Context, c *cli.Command) error {
	r := newRenderer(c.Root().Writer, cmd.app.Config.Display.DateFormat)

	total := cmd.app.Tasks.Len()
	if total == 0 {
		r.muted("No tasks in your list.")
		return nil
	}

	if !cmd.yes {
		ok, err := cmd.confirm(total)
		if err != nil {
			return err
		}
		if !ok {
			r.muted("Nothing was cleared.")
			return nil
		}
	}

	removed := cmd.app.Tasks.Clear()
	log.Info().Ctx(ctx).Int("removed", removed).Msg("tasks cleared")

	r.success(fmt.Sprintf("Cleared %d task(s).", removed))
	return nil
}

func confirmClear(n int) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("refusing to clear %d task(s) without confirmation; pass --yes", n)
	}

	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete all %d task(s)?", n)).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirm clear: %w", err)
	}

	return ok, nil
}
