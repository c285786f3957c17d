package cmd

import (
	"fmt"
	"os"

	"github.com/DachengChen/paiSchema/session"
	"github.com/spf13/cobra"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render a model or its SQL as a Graphviz DOT diagram",
	Long: `Render a diagram of tables, columns and foreign keys.

With --model the JSON schema of a generated answer is drawn, including
foreign-key edges. With --sql the CREATE TABLE statements are drawn
(columns only). Pipe the output to 'dot -Tpng' to get an image.`,
	Example: `  paischema visualize --model answer.txt | dot -Tpng -o model.png
  paischema visualize --sql schema.sql --out schema.dot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modelPath, _ := cmd.Flags().GetString("model")
		sqlPath, _ := cmd.Flags().GetString("sql")
		out, _ := cmd.Flags().GetString("out")
		if (modelPath == "") == (sqlPath == "") {
			return fmt.Errorf("exactly one of --model or --sql is required")
		}

		var res session.Result
		if modelPath != "" {
			text, err := readSource(cmd, modelPath)
			if err != nil {
				return err
			}
			res = current.session.VisualizeModel(cmd.Context(), text)
		} else {
			text, err := readSource(cmd, sqlPath)
			if err != nil {
				return err
			}
			res = current.session.VisualizeSQL(cmd.Context(), text)
		}

		if out == "" || !res.OK() {
			return report(cmd.OutOrStdout(), res)
		}
		if err := os.WriteFile(out, []byte(res.Output), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d nodes, %d edges)\n", out, len(res.Graph.Nodes), len(res.Graph.Edges))
		return nil
	},
}

func init() {
	visualizeCmd.Flags().StringP("model", "m", "", "file holding a generated model (- for stdin)")
	visualizeCmd.Flags().String("sql", "", "file holding SQL DDL (- for stdin)")
	visualizeCmd.Flags().StringP("out", "o", "", "write the DOT output to this file instead of stdout")
	rootCmd.AddCommand(visualizeCmd)
}
