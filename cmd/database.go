package cmd

import (
	"github.com/spf13/cobra"
)

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Insert one sample document per table into MongoDB",
	Long: `Parse the JSON schema of a model and insert one synthetic document
into a collection named after each table. Every run inserts new
documents; tables already written are kept when a later one fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := modelFlag(cmd)
		if err != nil {
			return err
		}
		uri, _ := cmd.Flags().GetString("uri")
		return report(cmd.OutOrStdout(), current.session.Materialize(cmd.Context(), model, uri))
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run SQL DDL against PostgreSQL (always rolled back)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("sql")
		text, err := readSource(cmd, path)
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), current.session.CheckDDL(cmd.Context(), text))
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Print an existing PostgreSQL schema as a model",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("schema")
		return report(cmd.OutOrStdout(), current.session.ImportSchema(cmd.Context(), name))
	},
}

func init() {
	materializeCmd.Flags().StringP("model", "m", "", "file holding a generated model (- for stdin)")
	materializeCmd.Flags().String("uri", "", "MongoDB connection string (default from config)")

	checkCmd.Flags().String("sql", "", "file holding SQL DDL or a generated answer (- for stdin)")
	_ = checkCmd.MarkFlagRequired("sql")

	importCmd.Flags().String("schema", "public", "PostgreSQL schema to read")

	rootCmd.AddCommand(materializeCmd, checkCmd, importCmd)
}
