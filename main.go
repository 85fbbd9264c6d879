package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/lia/internal/commands"
	"github.com/hay-kot/lia/internal/core/config"
	"github.com/hay-kot/lia/internal/core/diag"
	"github.com/hay-kot/lia/internal/core/logging"
	"github.com/hay-kot/lia/internal/core/styles"
	"github.com/hay-kot/lia/internal/lia"
	"github.com/hay-kot/lia/internal/store/flatfile"
	"github.com/hay-kot/lia/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// go install leaves the ldflags unset; read the module version and VCS
	// metadata from the embedded build info instead.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// loadFailedMsg is shown when the task file cannot be read.
const loadFailedMsg = "Error loading tasks from file."

// skipLoad lists commands that run without reading the task file.
var skipLoad = map[string]bool{
	"config": true,
	"help":   true,
	"h":      true,
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		liaApp    = &lia.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "lia",
		Usage:     "Keep track of to-dos, deadlines and events",
		UsageText: "lia [global options] command [command options]",
		Description: `lia keeps a personal task list in a plain text file.

Tasks are to-dos, deadlines (due by a date) or events (spanning two dates).
Dates use the yyyy-MM-dd HHmm format, for example "2019-12-02 1800".

Run 'lia' with no arguments to list your tasks.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("LIA_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/lia.log)",
				Sources:     cli.EnvVars("LIA_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("LIA_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("LIA_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "store",
				Usage:       "path to the task file (overrides store_path)",
				Sources:     cli.EnvVars("LIA_STORE"),
				Destination: &flags.StorePath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/lia.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "lia.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			logging.Setup(logger)
			logCloser = closer

			name := c.Args().First()
			ctx = logging.WithCommand(ctx, name)

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.StorePath != "" {
				cfg.Store = flags.StorePath
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			// Load warnings are held until the task file has been read in full
			reporter := diag.New(os.Stderr)
			reporter.Hold()

			store := flatfile.New(cfg.StorePath(), reporter, logging.Component("flatfile"))
			tasks := lia.NewTaskService(store, logging.Component("lia"))

			if !skipLoad[name] {
				if err := tasks.Load(); err != nil {
					reporter.Discard()
					log.Error().Ctx(ctx).Err(err).Str("path", store.Path()).Msg("load tasks")
					return ctx, fmt.Errorf("%s\n%w", loadFailedMsg, err)
				}
				if n := reporter.Warnings(); n > 0 {
					log.Warn().Ctx(ctx).Int("skipped", n).Msg("task file has unreadable lines")
				}
				if err := reporter.Flush(); err != nil {
					log.Warn().Err(err).Msg("failed to write load warnings")
				}
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*liaApp = *lia.NewApp(tasks, cfg)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	listCmd := commands.NewListCmd(flags, liaApp)

	app = commands.NewAddCmd(flags, liaApp).Register(app)
	app = listCmd.Register(app)
	app = commands.NewMarkCmd(flags, liaApp).Register(app)
	app = commands.NewDeleteCmd(flags, liaApp).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)

	// List tasks when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'lia --help' for usage", c.Args().First())
		}
		return listCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		if msg := runErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, msg)
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
