package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/koustreak/litedb/internal/database/sqlite"
	"github.com/koustreak/litedb/internal/logger"
	"github.com/koustreak/litedb/internal/paths"
)

// defaultDBName is the database file created in the data directory when
// config init gets no --db.
const defaultDBName = "litedb.db"

var (
	initDB               string
	initVersion          string
	initPassword         string
	initConnectionString string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the connection configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the configuration file after checking the database is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		driver, err := sqlite.ParseDriver(driverName)
		if err != nil {
			return err
		}

		cfg, err := initConfiguration(cmd)
		if err != nil {
			return err
		}

		w, err := sqlite.New(cmd.Context(), cfg.DatabasePath, cfg.DatabaseVersion,
			sqlite.WithPassword(cfg.Password),
			sqlite.WithPersist(),
			sqlite.WithConfigurationPath(configPath),
			sqlite.WithDriver(driver),
			sqlite.WithLogger(logger.Global()),
		)
		if err != nil {
			return err
		}
		defer w.Close()

		written := w.Configuration()
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", written.File(), written.String())
		return nil
	},
}

// initConfiguration merges --connection-string with the individual flags.
// Flags given explicitly win. Without a database path the file defaults
// to the data directory.
func initConfiguration(cmd *cobra.Command) (*sqlite.Configuration, error) {
	cfg := &sqlite.Configuration{DatabaseVersion: initVersion}
	if initConnectionString != "" {
		parsed, err := sqlite.ParseConnectionString(initConnectionString)
		if err != nil {
			return nil, err
		}
		cfg = parsed
		if cfg.DatabaseVersion == "" {
			cfg.DatabaseVersion = initVersion
		}
	}

	flags := cmd.Flags()
	if flags.Changed("db") || cfg.DatabasePath == "" {
		cfg.DatabasePath = initDB
	}
	if flags.Changed("version") {
		cfg.DatabaseVersion = initVersion
	}
	if flags.Changed("password") || cfg.Password == "" {
		cfg.Password = initPassword
	}

	if cfg.DatabasePath == "" {
		dir, err := paths.DataDirectory()
		if err != nil {
			return nil, err
		}
		if err := paths.EnsureDir(dir); err != nil {
			return nil, err
		}
		cfg.DatabasePath = filepath.Join(dir, defaultDBName)
	}
	return cfg, nil
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration with the password masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sqlite.NewConfiguration(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Read(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", cfg.File(), cfg.String())
		return nil
	},
}

func initConfigCommands() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().StringVar(&initDB, "db", "", "database file path (default <data dir>/"+defaultDBName+")")
	configInitCmd.Flags().StringVar(&initVersion, "version", "3", "SQLite major version")
	configInitCmd.Flags().StringVar(&initPassword, "password", "", "database password (optional)")
	configInitCmd.Flags().StringVar(&initConnectionString, "connection-string", "",
		`descriptor such as "Data Source=app.db;Version=3;Password=p;"`)
}
