package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	gonavicli "github.com/xuanyanwow/GoNavi-sub000/internal/cli"
)

const version = "1.0.0"

func main() {
	app := &cli.Command{
		Name:    "gonavi",
		Usage:   "SQL console and grid-edit backend for database clients",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:      "exec",
				Usage:     "Execute a SQL script and print the results",
				ArgsUsage: "[FILE]",
				Action:    execCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (table, json, or csv)",
					},
				),
			},
			{
				Name:   "bridge",
				Usage:  "Serve the WebSocket RPC bridge for a UI process",
				Action: bridgeCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:    "listen",
						Aliases: []string{"l"},
						Usage:   "Address to listen on",
						Value:   "127.0.0.1:7943",
					},
				),
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// connectionFlags are shared by every command that opens a backend.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "driver",
			Aliases: []string{"d"},
			Usage:   "Backend driver (postgres or sqlite)",
		},
		&cli.StringFlag{
			Name:  "dsn",
			Usage: "Connection string (pgx URI/key=value for postgres; file path or :memory: for sqlite)",
		},
		&cli.StringFlag{
			Name:  "dialect",
			Usage: "SQL dialect override (mysql, postgres, kingbase, sqlite, oracle, dameng, sqlserver)",
		},
		&cli.IntFlag{
			Name:  "max-rows",
			Usage: "Row cap injected into bare SELECTs (0 disables)",
			Value: -1, // -1 keeps the configured default
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-statement timeout",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug output",
		},
	}
}

// configFromFlags assembles the runtime config from defaults and flags.
func configFromFlags(cmd *cli.Command, format string) *gonavicli.Config {
	config := gonavicli.DefaultConfig
	gonavicli.ApplyFlagsToConfig(&config,
		cmd.String("driver"),
		cmd.String("dsn"),
		cmd.String("dialect"),
		int(cmd.Int("max-rows")),
		cmd.Duration("timeout"),
		format,
		cmd.Bool("verbose"),
	)
	return &config
}

// execCommand handles 'gonavi exec': read the script from the file
// argument or stdin, run it, and exit nonzero when the run halted.
func execCommand(ctx context.Context, cmd *cli.Command) error {
	config := configFromFlags(cmd, cmd.String("format"))

	var (
		script []byte
		err    error
	)
	if path := cmd.Args().First(); path != "" && path != "-" {
		script, err = os.ReadFile(path)
	} else {
		script, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	exitCode, err := gonavicli.Exec(ctx, config, string(script))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// bridgeCommand handles 'gonavi bridge'.
func bridgeCommand(ctx context.Context, cmd *cli.Command) error {
	config := configFromFlags(cmd, "")
	return gonavicli.Serve(ctx, config, cmd.String("listen"))
}
