package render

import (
	"encoding/json"
)

type jsonOutput struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Nodes  []jsonNode `json:"nodes"`
}

type jsonNode struct {
	ID          uint64       `json:"id"`
	Parent      uint64       `json:"parent,omitempty"`
	Kind        string       `json:"kind"`
	Text        string       `json:"text,omitempty"`
	Item        string       `json:"item,omitempty"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Layer       int          `json:"layer,omitempty"`
	Hidden      bool         `json:"hidden,omitempty"`
	Rendered    bool         `json:"rendered"`
	Highlighted bool         `json:"highlighted,omitempty"`
	Error       string       `json:"error,omitempty"`
	Anchors     []jsonAnchor `json:"anchors,omitempty"`
}

type jsonAnchor struct {
	Edge   string `json:"edge"`
	Target uint64 `json:"target"`
	To     string `json:"to"`
}

// JSON exports the snapshot as pretty-printed JSON. X and Y are the center
// of each node's absolute box.
func JSON(s Snapshot) ([]byte, error) {
	out := jsonOutput{
		Width:  s.Viewport.Width,
		Height: s.Viewport.Height,
		Nodes:  make([]jsonNode, 0, len(s.Nodes)),
	}
	for _, n := range s.Nodes {
		jn := jsonNode{
			ID:          n.ID,
			Parent:      n.Parent,
			Kind:        n.Kind,
			Text:        n.Text,
			Item:        n.Item,
			X:           n.Box.Center.X,
			Y:           n.Box.Center.Y,
			Width:       n.Box.Size.Width,
			Height:      n.Box.Size.Height,
			Layer:       n.Layer,
			Hidden:      !n.Visible,
			Rendered:    n.Rendered,
			Highlighted: n.Highlighted,
			Error:       n.Err,
		}
		for _, a := range n.Anchors {
			jn.Anchors = append(jn.Anchors, jsonAnchor{Edge: a.Edge, Target: a.Target, To: a.TargetEdge})
		}
		out.Nodes = append(out.Nodes, jn)
	}
	return json.MarshalIndent(out, "", "  ")
}
