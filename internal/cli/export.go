package cli

import (
	"bytes"

	"github.com/spf13/cobra"
)

func (c *CLI) exportCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Convert a scenario between JSON and YAML",
		Example: `  algoviz export demo.json --format yaml
  algoviz export demo.yaml -o demo.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			f, err := documentFormat(format, output)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := doc.Encode(&buf, f); err != nil {
				return err
			}
			return writeOutput(output, cmd.OutOrStdout(), buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "document format: json, yaml (default: from output extension, else json)")
	return cmd
}
