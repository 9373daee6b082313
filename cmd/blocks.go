package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nzambello/ploneview/pkg/blocks"
	"github.com/nzambello/ploneview/pkg/config"
	"github.com/urfave/cli/v3"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// BlocksCommand creates the blocks command
func BlocksCommand() *cli.Command {
	return &cli.Command{
		Name:  "blocks",
		Usage: "List the block types the renderer knows about",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			fmt.Println(blocksTable(blocks.DefaultRegistry(), cfg.Blocks.Disabled))
			return nil
		},
	}
}

func blocksTable(reg *blocks.Registry, disabled []string) string {
	off := make(map[string]bool, len(disabled))
	for _, t := range disabled {
		off[t] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("TYPE", "RENDERS AS", "TITLE", "VARIATIONS")

	entries := reg.Entries()
	for _, e := range entries {
		var variations []string
		for _, v := range e.Config.Variations {
			name := v.ID
			if v.IsDefault {
				name += "*"
			}
			variations = append(variations, name)
		}
		typ := e.Type
		if off[typ] {
			typ += " (disabled)"
		}
		t.Row(typ, e.Config.ID, e.Config.Title, strings.Join(variations, ", "))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Block types"))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("%d types, * marks the default variation", len(entries))))
	return b.String()
}
