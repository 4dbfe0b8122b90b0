package cli

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoviz/pkg/scenario"
)

// storeCommand creates the document store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage scenarios in the configured store",
	}

	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

func (c *CLI) storePutCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "Store a scenario document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, _, sc, err := c.loadDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if id == "" {
				id = sc.ID()
			}

			var buf bytes.Buffer
			if err := sc.Export(&buf, scenario.FormatJSON); err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Put(ctx, id, buf.Bytes()); err != nil {
				return err
			}
			printSuccess("Stored %s", StyleValue.Render(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "store under this id (default: the document id)")
	return cmd
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Fetch a stored scenario document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			data, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			f, err := documentFormat(format, output)
			if err != nil {
				return err
			}
			if f != scenario.FormatJSON {
				doc, err := scenario.Decode(bytes.NewReader(data), scenario.FormatJSON)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := doc.Encode(&buf, f); err != nil {
					return err
				}
				data = buf.Bytes()
			}
			return writeOutput(output, cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "document format: json, yaml")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored scenarios",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			infos, err := st.List(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(w, StyleDim.Render("No stored scenarios"))
				return nil
			}
			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{info.ID, strconv.Itoa(info.Size), info.Modified.Local().Format(time.DateTime)}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "Bytes", "Modified").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
					}
					if col == 0 {
						return StyleValue
					}
					return StyleDim
				})
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id...]",
		Aliases: []string{"delete"},
		Short:   "Remove stored scenarios",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
			}
			printSuccess("Removed %d scenario(s)", len(args))
			return nil
		},
	}
}
