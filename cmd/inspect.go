package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/DachengChen/paiSchema/config"
	"github.com/DachengChen/paiSchema/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the tables and columns of a model as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := modelFlag(cmd)
		if err != nil {
			return err
		}
		if expr, _ := cmd.Flags().GetString("jq"); expr != "" {
			values, err := schema.Query(text, expr)
			if err != nil {
				return err
			}
			return writeValues(cmd.OutOrStdout(), values)
		}
		s, err := schema.Parse(text)
		if err != nil {
			return err
		}
		writeInspection(cmd.OutOrStdout(), s)
		if err := s.Validate(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		return nil
	},
}

// writeInspection prints one row per column and a summary line.
func writeInspection(w io.Writer, s schema.Schema) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Table", "Column", "Type", "Kind", "Foreign key", "Sample"})
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetAutoWrapText(false)

	for _, t := range s.Tables {
		if len(t.Columns) == 0 {
			table.Append([]string{t.Name, "", "", "", "", ""})
		}
		for _, c := range t.Columns {
			fk := ""
			if c.ForeignKey != nil {
				fk = c.ForeignKey.String()
			}
			sample := ""
			if c.SampleValue != nil {
				sample = fmt.Sprint(c.SampleValue)
			}
			table.Append([]string{t.Name, c.Name, c.Type, c.Kind.String(), fk, sample})
		}
	}
	table.Render()
	fmt.Fprintln(w, s.Summary())
}

// writeValues prints one JSON value per line, strings unquoted like jq -r.
func writeValues(w io.Writer, values []any) error {
	for _, v := range values {
		if str, ok := v.(string); ok {
			fmt.Fprintln(w, str)
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Print the JSON Schema that generated models are checked against",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := schema.DocumentSchemaJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return err
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := *current.cfg
		if redacted.AI.OpenAI.APIKey != "" {
			redacted.AI.OpenAI.APIKey = "xxxxx"
		}
		if redacted.Postgres.Password != "" {
			redacted.Postgres.Password = "xxxxx"
		}
		return writeYAML(cmd.OutOrStdout(), &redacted)
	},
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringP("model", "m", "", "file holding a generated model (- for stdin)")
	inspectCmd.Flags().String("jq", "", "print the results of a jq expression over the model document instead")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(inspectCmd, formatCmd, configCmd)
}
