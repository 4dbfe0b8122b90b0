package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoviz/pkg/scenario"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the commands of a scenario",
		Long:  `Print a scenario's metadata and a table of its commands. Commands before --step are shown as applied.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			writeInspection(cmd.OutOrStdout(), doc, step)
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", 0, "cursor position to mark")
	return cmd
}

// writeInspection prints the document summary followed by the command table.
func writeInspection(w io.Writer, doc *scenario.Document, step int) {
	step = min(max(step, 0), len(doc.Commands))

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(10)
	line := func(k, v string) {
		fmt.Fprintln(w, keyStyle.Render(k)+" "+StyleValue.Render(v))
	}
	line("id", doc.ID)
	if doc.Name != "" {
		line("name", doc.Name)
	}
	if !doc.Created.IsZero() {
		line("created", doc.Created.Format(time.RFC3339))
	}
	line("nodes", strconv.Itoa(len(doc.Nodes)))
	line("commands", fmt.Sprintf("%d (%s)", len(doc.Commands), actionCounts(doc.Commands)))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(doc.Commands))
	for i, r := range doc.Commands {
		marker := " "
		if i == step {
			marker = iconCursor
		}
		rows = append(rows, []string{marker, strconv.Itoa(i + 1), string(r.Action), describeRecord(r)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Action", "Change").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == step:
				return styleCursor
			case row < step:
				return styleApplied
			default:
				return stylePending
			}
		})
	fmt.Fprintln(w, t.Render())
}

// actionCounts summarizes records as "link 3, move 5".
func actionCounts(records []scenario.Record) string {
	counts := map[string]int{}
	for _, r := range records {
		counts[string(r.Action)]++
	}
	actions := make([]string, 0, len(counts))
	for a := range counts {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("%s %d", a, counts[a])
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
}

// describeRecord renders the change a record makes.
func describeRecord(r scenario.Record) string {
	cmd, err := r.Command()
	if err != nil {
		return StyleWarning.Render(err.Error())
	}
	return fmt.Sprint(cmd)
}
