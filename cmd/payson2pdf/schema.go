// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/petli/payson2pdf/internal/report"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the effective report schema as YAML",
	Long: `Schema prints the report schema that a conversion would use: the
built-in Payson layout, or the file given with --schema after validation.
Redirect the output to a file and edit it to describe a differently
exported report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := effectiveSchema()
		if err != nil {
			return err
		}
		data, err := report.MarshalSchema(schema)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
