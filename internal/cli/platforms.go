package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/unidep/pkg/platform"
)

// platformsCommand creates the platforms command.
func (c *CLI) platformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms and their selectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), platformTable(platform.Default()).Render())
			return err
		},
	}
}

func platformTable(t *platform.Table) *table.Table {
	header := StyleTitle.Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("PLATFORM", "CLASS", "SELECTORS", "PIP MARKER").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, p := range t.All() {
		sels := t.Selectors(p)
		names := make([]string, len(sels))
		for i, s := range sels {
			names[i] = string(s)
		}
		tbl.Row(string(p), string(t.Class(p)), strings.Join(names, " "), t.Marker([]platform.Platform{p}))
	}
	return tbl
}
