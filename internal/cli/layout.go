package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/pipeline"
	"github.com/matzehuels/holopanel/pkg/render"
)

// layoutFlags holds flags for the layout command.
type layoutFlags struct {
	json    bool
	pointer string
}

// layoutCommand creates the layout command for printing resolved boxes.
func (c *CLI) layoutCommand() *cobra.Command {
	flags := layoutFlags{}

	cmd := &cobra.Command{
		Use:   "layout [document]",
		Short: "Print the resolved layout of a panel document",
		Long: `Lay out a panel document and print every node's box.

Coordinates are panel pixels with the origin at the panel center and Y
growing upward. Nodes whose layout cannot be resolved are listed with the
error instead of a box.`,
		Example: `  # Table of resolved boxes
  holopanel layout menu.toml

  # Highlight the button under (0, 40) and print JSON
  holopanel layout menu.toml --pointer 0,40 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&flags.pointer, "pointer", "", "route a pointer at x,y before printing")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, path string, flags layoutFlags) error {
	data, err := readDocument(path)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return err
	}
	opts := pipeline.Options{Document: data, Name: documentName(path), Config: cfg}
	if flags.pointer != "" {
		p, err := parsePoint(flags.pointer)
		if err != nil {
			return err
		}
		opts.Pointer = &p
	}

	runner := c.newRunner(ctx, true)
	defer runner.Close()

	h, err := runner.BuildHeadless(ctx, opts)
	if err != nil {
		return err
	}
	defer h.Close()

	snap := render.Capture(h.Scene)
	if flags.json {
		out, err := render.JSON(snap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, string(out))
		return err
	}

	fmt.Fprintln(c.out, layoutTable(snap))
	if errs := snap.Errors(); len(errs) > 0 {
		printWarning(c.out, "%d nodes could not be laid out", len(errs))
	}
	return nil
}

// layoutTable renders one row per node, indented by depth.
func layoutTable(snap render.Snapshot) string {
	rows := make([][]string, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		rows = append(rows, []string{
			strconv.FormatUint(n.ID, 10),
			strings.Repeat("  ", n.Depth) + n.Kind,
			nodeLabel(n),
			boxCell(n),
			strconv.Itoa(n.Layer),
			nodeState(n),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Kind", "Label", "Box", "Layer", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			n := snap.Nodes[row]
			switch {
			case n.Err != "":
				return StyleError
			case n.Highlighted:
				return StyleHighlight
			case !n.Visible:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	return StyleTitle.Render(fmt.Sprintf("Viewport %v", snap.Viewport)) + "\n" + t.Render()
}

func nodeLabel(n render.NodeInfo) string {
	switch {
	case n.Text != "":
		return strconv.Quote(n.Text)
	case n.Item != "":
		return n.Item
	}
	return ""
}

func boxCell(n render.NodeInfo) string {
	if n.Err != "" {
		return n.Err
	}
	return fmt.Sprintf("%v @ %v", n.Box.Size, roundCoords(n.Box.Center))
}

func nodeState(n render.NodeInfo) string {
	var states []string
	if !n.Visible {
		states = append(states, "hidden")
	}
	if n.Highlighted {
		states = append(states, "highlighted")
	}
	if !n.Rendered && n.Err == "" {
		states = append(states, "pending")
	}
	return strings.Join(states, ",")
}

// roundCoords trims float noise from resolved positions.
func roundCoords(c geom.Coordinates) geom.Coordinates {
	round := func(v float64) float64 {
		f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
		return f
	}
	return geom.Coordinates{X: round(c.X), Y: round(c.Y)}
}
