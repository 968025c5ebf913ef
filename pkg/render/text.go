package render

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	styleKind   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleMarked = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Text draws the snapshot as a terminal tree, one line per node.
func Text(s Snapshot) string {
	if len(s.Nodes) == 0 {
		return styleDim.Render("(empty scene)")
	}
	trees := make(map[uint64]*tree.Tree, len(s.Nodes))
	root := tree.New().Enumerator(tree.RoundedEnumerator).EnumeratorStyle(styleDim)
	for _, n := range s.Nodes {
		t := tree.Root(textLabel(n))
		trees[n.ID] = t
		if p, ok := trees[n.Parent]; ok {
			p.Child(t)
		} else {
			root.Child(t)
		}
	}
	return root.String()
}

func textLabel(n NodeInfo) string {
	label := styleKind.Render(n.Kind) + styleDim.Render(" #"+strconv.FormatUint(n.ID, 10))
	switch {
	case n.Text != "":
		label += " " + styleValue.Render(strconv.Quote(n.Text))
	case n.Item != "":
		label += " " + styleValue.Render(n.Item)
	}
	if n.Err != "" {
		return label + " " + styleError.Render(n.Err)
	}
	label += styleDim.Render(fmt.Sprintf(" %v @ %v", n.Box.Size, n.Box.Center))
	if n.Layer != 0 {
		label += styleDim.Render(fmt.Sprintf(" layer %d", n.Layer))
	}
	switch {
	case !n.Visible:
		label += " " + styleDim.Render("hidden")
	case n.Highlighted:
		label += " " + styleMarked.Render("highlighted")
	}
	return label
}
