package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/koustreak/litedb/internal/database"
	"github.com/koustreak/litedb/internal/errs"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured database can be opened",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer w.Close()

		ok, msg := w.TestConnection(cmd.Context())
		if !ok {
			return errs.New(errs.ErrKindConnectionFailed, msg)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", w.Path())
		return nil
	},
}

var execCmd = &cobra.Command{
	Use:   "exec SQL [ARGS...]",
	Short: "Run a statement and print the number of affected rows",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer w.Close()

		n, err := w.ExecuteNonQuery(cmd.Context(), args[0], parseArgs(args[1:])...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query SQL [ARGS...]",
	Short: "Run a statement and print its rows as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer w.Close()

		table, err := w.ExecuteReader(cmd.Context(), args[0], parseArgs(args[1:])...)
		if err != nil {
			return err
		}
		return writeJSON(cmd, table.Maps())
	},
}

var scalarCmd = &cobra.Command{
	Use:   "scalar SQL [ARGS...]",
	Short: "Run a statement and print the first column of the first row",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer w.Close()

		v, err := w.ExecuteScalar(cmd.Context(), args[0], parseArgs(args[1:])...)
		if err != nil {
			return err
		}
		if v == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "NULL")
			return nil
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var txCmd = &cobra.Command{
	Use:   "tx FILE",
	Short: "Run every ;-separated statement of FILE in one transaction",
	Long: `Run every ;-separated statement of FILE in one transaction.

Either all statements are committed or, when one fails, none of them are.
Use - to read the statements from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			script []byte
			err    error
		)
		if args[0] == "-" {
			script, err = io.ReadAll(cmd.InOrStdin())
		} else {
			script, err = os.ReadFile(args[0])
		}
		if err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput, "cannot read statements", err)
		}

		statements := database.SplitStatements(string(script))
		if len(statements) == 0 {
			return errs.Newf(errs.ErrKindInvalidInput, "%s holds no statements", args[0])
		}

		queries := make([]database.Query, len(statements))
		for i, s := range statements {
			queries[i] = database.NewQuery(s)
		}

		w, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.ExecuteTransaction(cmd.Context(), queries...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "committed %d statement(s)\n", len(queries))
		return nil
	},
}

func initQueryCommands() {
	rootCmd.AddCommand(pingCmd, execCmd, queryCmd, scalarCmd, txCmd)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
