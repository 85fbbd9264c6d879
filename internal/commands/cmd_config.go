package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/lia/internal/core/styles"
	"github.com/hay-kot/lia/pkg/iojson"
)

type ConfigCmd struct {
	flags  *Flags
	format string
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "lia config validate [options]",
				Description: "Validates the configuration file, the theme, the date format and the task store path.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// configIssue is a single validation failure.
type configIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	issues := collectIssues(cfg.ValidateDeep(cmd.flags.ConfigPath))

	if cmd.format == "json" {
		out := struct {
			Valid      bool          `json:"valid"`
			ConfigPath string        `json:"config_path"`
			StorePath  string        `json:"store_path"`
			Errors     []configIssue `json:"errors,omitempty"`
		}{
			Valid:      len(issues) == 0,
			ConfigPath: cmd.flags.ConfigPath,
			StorePath:  cfg.StorePath(),
			Errors:     issues,
		}
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out)
	}

	r := newRenderer(c.Root().Writer, cfg.Display.DateFormat)
	r.line("Config file: " + cmd.flags.ConfigPath)
	r.line("Task store:  " + cfg.StorePath())

	if len(issues) == 0 {
		r.success("Configuration is valid")
		return nil
	}

	for _, issue := range issues {
		msg := fmt.Sprintf("%s: %s", issue.Field, issue.Message)
		if r.color {
			msg = styles.ErrorStyle.Render(msg)
		}
		r.line(msg)
	}

	_, _ = fmt.Fprintf(c.Root().ErrWriter, "%d error(s) found\n", len(issues))
	return cli.Exit("", 1)
}

func collectIssues(err error) []configIssue {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []configIssue{{Field: "config", Message: err.Error()}}
	}

	issues := make([]configIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, configIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return issues
}
