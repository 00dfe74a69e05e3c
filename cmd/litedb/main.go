package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/koustreak/litedb/internal/database/sqlite"
	"github.com/koustreak/litedb/internal/logger"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	driverName string
)

var rootCmd = &cobra.Command{
	Use:   "litedb",
	Short: "Run commands against a configured SQLite database",
	Long: `litedb is a small client for a single SQLite database file.

The database is described by a configuration file (see "litedb config init").
Every command opens the database, runs, and closes it again. Statement
parameters are written @0, @1, ... and bind to the trailing arguments in order;
numeric arguments are passed as integers, everything else as text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetGlobal(logger.New(&logger.Config{
			Level:  logLevel,
			Format: logFormat,
			Output: cmd.ErrOrStderr(),
		}))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "configuration file (default: "+sqlite.ConfigurationFileName+" in the user config dir)")
	flags.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error, disabled")
	flags.StringVar(&logFormat, "log-format", "console", "log format: console or json")
	flags.StringVar(&driverName, "driver", "sqlite", "engine binding: sqlite (pure Go) or sqlite3 (cgo)")

	initConfigCommands()
	initQueryCommands()
	initSchemaCommand()
	initBackupCommands()
}

// connect opens the configured database with the global flags applied.
func connect(ctx context.Context) (*sqlite.Wrapper, error) {
	driver, err := sqlite.ParseDriver(driverName)
	if err != nil {
		return nil, err
	}
	return sqlite.NewFromConfiguration(ctx, configPath,
		sqlite.WithDriver(driver),
		sqlite.WithLogger(logger.Global()),
	)
}
