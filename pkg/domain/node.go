package domain

// TextType is the Type of an AbstractNode that only carries text.
const TextType = "#text"

// AbstractNode is one node of the desired tree produced by the reconciliation engine.
// It is immutable for a given render pass: the next pass replaces it instead of mutating it.
type AbstractNode struct {
	// Type selects the host object kind, e.g. "div" or "button".
	// Text leaves use TextType.
	Type string `json:"type" yaml:"type"`

	// Props holds the raw attribute and event bindings for the node.
	// They are decoded into Props when an instance is created or updated.
	Props map[string]any `json:"props,omitempty" yaml:"props,omitempty"`

	// Text is the payload of a text leaf. Ignored for structural nodes.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Children is the ordered list of child nodes.
	Children []AbstractNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Element builds a structural node.
func Element(typ string, props map[string]any, children ...AbstractNode) AbstractNode {
	return AbstractNode{
		Type:     typ,
		Props:    props,
		Children: children,
	}
}

// Text builds a text leaf.
func Text(text string) AbstractNode {
	return AbstractNode{Type: TextType, Text: text}
}

// IsText reports whether the node is a text leaf.
func (n AbstractNode) IsText() bool {
	return n.Type == TextType
}

// Walk visits n and all of its descendants depth-first, parents before children.
// Returning false from fn skips the children of the visited node.
func (n AbstractNode) Walk(fn func(AbstractNode) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Clone returns a deep copy of the node's structure. Prop values are copied shallowly.
func (n AbstractNode) Clone() AbstractNode {
	out := AbstractNode{Type: n.Type, Text: n.Text}
	if n.Props != nil {
		out.Props = make(map[string]any, len(n.Props))
		for k, v := range n.Props {
			out.Props[k] = v
		}
	}
	if n.Children != nil {
		out.Children = make([]AbstractNode, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}
