package main

import (
	"github.com/spf13/cobra"

	"github.com/koustreak/litedb/internal/schema"
)

var schemaTable string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print tables, columns and foreign keys as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer w.Close()

		r := schema.NewIntrospector(w)
		if schemaTable != "" {
			info, err := r.InspectTable(cmd.Context(), schemaTable)
			if err != nil {
				return err
			}
			return writeJSON(cmd, info)
		}

		info, err := r.InspectSchema(cmd.Context())
		if err != nil {
			return err
		}
		return writeJSON(cmd, info)
	},
}

func initSchemaCommand() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaTable, "table", "", "inspect only this table")
}
