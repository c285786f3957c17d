package cmd

import (
	"fmt"

	"github.com/DachengChen/paiSchema/input"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data model from free text, JSON or CSV",
	Example: `  paischema generate --input customers.csv
  paischema generate --text "a library lends books to members"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("input")
		text, _ := cmd.Flags().GetString("text")

		var in input.Input
		switch {
		case path != "" && text != "":
			return fmt.Errorf("use either --input or --text, not both")
		case path != "":
			var err error
			if in, err = input.Load(path, cmd.InOrStdin()); err != nil {
				return err
			}
		case text != "":
			in = input.FromText(text)
		default:
			return fmt.Errorf("one of --input or --text is required")
		}

		res := current.session.GenerateModel(cmd.Context(), in.Text)
		return report(cmd.OutOrStdout(), res)
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Suggest improvements to a data model and produce the optimized model",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := modelFlag(cmd)
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), current.session.OptimizeModel(cmd.Context(), model))
	},
}

var adaptCmd = &cobra.Command{
	Use:   "adapt",
	Short: "Adapt a data model to new requirements",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := modelFlag(cmd)
		if err != nil {
			return err
		}
		reqs, _ := cmd.Flags().GetString("requirements")
		return report(cmd.OutOrStdout(), current.session.AdaptModel(cmd.Context(), model, reqs))
	},
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Generate example SQL statements for a data model",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := modelFlag(cmd)
		if err != nil {
			return err
		}
		qt, _ := cmd.Flags().GetString("type")
		return report(cmd.OutOrStdout(), current.session.GenerateQueries(cmd.Context(), model, qt))
	},
}

// modelFlag reads the file named by --model ("-" for stdin).
func modelFlag(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("model")
	if path == "" {
		return "", fmt.Errorf("--model is required")
	}
	return readSource(cmd, path)
}

func init() {
	generateCmd.Flags().StringP("input", "i", "", "data file (.txt, .json or .csv; - for stdin)")
	generateCmd.Flags().StringP("text", "t", "", "inline description of the data")

	for _, c := range []*cobra.Command{optimizeCmd, adaptCmd, queriesCmd} {
		c.Flags().StringP("model", "m", "", "file holding the current model (- for stdin)")
	}
	adaptCmd.Flags().StringP("requirements", "r", "", "the new requirements")
	_ = adaptCmd.MarkFlagRequired("requirements")
	queriesCmd.Flags().String("type", "SELECT", "query type: SELECT, INSERT, UPDATE or DELETE")

	rootCmd.AddCommand(generateCmd, optimizeCmd, adaptCmd, queriesCmd)
}
