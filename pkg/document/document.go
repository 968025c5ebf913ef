// Package document describes panels declaratively in TOML and builds them
// into a view.Scene.
//
// A document holds one panel tree:
//
//	title = "Homes"
//
//	[panel]
//	width = 600
//	height = 400
//
//	[[panel.children]]
//	key = "title"
//	kind = "text"
//	text = "Homes"
//	width = "wrap"
//	height = "wrap"
//	center_x = true
//	top = "parent.top"
//	margin = { top = 10 }
//
//	[[panel.children]]
//	kind = "button"
//	text = "Close"
//	action = "close"
//	top = "title.bottom"
//
// Sizes are a pixel number or one of "wrap", "match" and "fill". Anchors
// name an edge as "<key>.<edge>" where key is an earlier node or "parent"
// and edge is start, end, top or bottom (left and right are aliases).
package document

import (
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/holopanel/pkg/errors"
)

// ErrUnknownKind is wrapped by errors about node kinds that do not exist.
var ErrUnknownKind = errors.New("unknown node kind")

// Document is a parsed panel document.
type Document struct {
	Title string `toml:"title"`
	Panel Node   `toml:"panel"`
}

// Node is one declared node. Kind defaults to "container" for the panel.
type Node struct {
	Key  string `toml:"key"`
	Kind string `toml:"kind"`

	Text string `toml:"text"`
	Item string `toml:"item"`

	// Width and Height hold a number or "wrap", "match", "fill".
	Width  any `toml:"width"`
	Height any `toml:"height"`

	X *float64 `toml:"x"`
	Y *float64 `toml:"y"`

	Center  bool `toml:"center"`
	CenterX bool `toml:"center_x"`
	CenterY bool `toml:"center_y"`

	Start  string `toml:"start"`
	Top    string `toml:"top"`
	End    string `toml:"end"`
	Bottom string `toml:"bottom"`

	Margin Margin `toml:"margin"`

	Visible    *bool  `toml:"visible"`
	Layer      int    `toml:"layer"`
	Background string `toml:"background"`

	// Action names the handler a click runs.
	Action string `toml:"action"`

	Children []Node `toml:"children"`
	Pages    []Page `toml:"pages"`
}

// Margin is the per-edge margin table.
type Margin struct {
	Start  float64 `toml:"start"`
	Top    float64 `toml:"top"`
	End    float64 `toml:"end"`
	Bottom float64 `toml:"bottom"`
}

// Page is one pager page.
type Page struct {
	Children []Node `toml:"children"`
}

// Decode parses a document and validates it.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "decode document")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, perrors.New(perrors.ErrCodeInvalidDocument, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes a document from a string.
func Parse(s string) (*Document, error) { return Decode(strings.NewReader(s)) }

// Load reads and decodes a document file.
func Load(path string) (*Document, error) {
	if err := perrors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := perrors.ValidateExtension(path, ".toml"); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeNotFound, err, "document %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the document as TOML.
func (d *Document) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(d)
}

// Count returns the number of nodes in the panel tree, pages excluded.
func (d *Document) Count() int { return d.Panel.count() }

func (n *Node) count() int {
	total := 1
	for i := range n.Children {
		total += n.Children[i].count()
	}
	return total
}

// ActionNames returns every action name used by a button, pages included,
// sorted and without duplicates.
func (d *Document) ActionNames() []string {
	var names []string
	d.Panel.walk(func(n *Node) {
		if n.Action != "" {
			names = append(names, n.Action)
		}
	})
	slices.Sort(names)
	return slices.Compact(names)
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for i := range n.Children {
		n.Children[i].walk(fn)
	}
	for i := range n.Pages {
		for j := range n.Pages[i].Children {
			n.Pages[i].Children[j].walk(fn)
		}
	}
}
