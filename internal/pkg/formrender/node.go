// Package formrender turns a questionnaire tree into a bound, editable form
// description. Rendering produces typed nodes for a presentation layer and
// control handles that write into the caller's answer document.
package formrender

import (
	"fhirstarter-service/internal/pkg/questionnaire"
)

// Layout is the presentation nesting handed down the group tree.
type Layout struct {
	Offset  int `json:"offset"`
	Columns int `json:"columns"`
}

// RootLayout is the layout seed of a top-level render.
var RootLayout = Layout{Offset: 0, Columns: 12}

// Nested is the layout of a child group.
func (l Layout) Nested() Layout {
	return Layout{Offset: l.Offset + 1, Columns: l.Columns - 1}
}

type NodeKind string

const (
	NodeGroup         NodeKind = "group"
	NodeQuestion      NodeKind = "question"
	NodeRepeatActions NodeKind = "repeat-actions"
	NodeRecordList    NodeKind = "record-list"
)

// Node describes one piece of the rendered form.
type Node struct {
	Kind      NodeKind                `json:"kind"`
	ID        string                  `json:"id,omitempty"`
	Label     string                  `json:"label,omitempty"`
	Help      string                  `json:"help,omitempty"`
	Layout    *Layout                 `json:"layout,omitempty"`
	TypeClass questionnaire.TypeClass `json:"type_class,omitempty"`
	Reference string                  `json:"reference,omitempty"`
	Repeats   bool                    `json:"repeats,omitempty"`
	Required  bool                    `json:"required,omitempty"`
	UnitID    string                  `json:"unit_id,omitempty"`
	Control   *Control                `json:"control,omitempty"`
	Children  []*Node                 `json:"children,omitempty"`
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

func repeatNodes(unitID, label string) []*Node {
	return []*Node{
		{Kind: NodeRepeatActions, UnitID: unitID},
		{Kind: NodeRecordList, UnitID: unitID, Label: label + " list"},
	}
}
