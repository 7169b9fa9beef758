package graph

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/graft/pkg/domain"
)

// GraphOverlay contains commit data to visualize on the graph.
type GraphOverlay struct {
	// Changed lists node paths ("", "0", "0/1") that differ from the previous tree.
	Changed []string
}

// GenerateMermaid produces a Mermaid flowchart of an abstract tree.
// It applies semantic styling:
// - Text: ("Rounded")
// - Element with event handlers: [[Subroutine]]
// - Default: [Rectangle]
// It also applies the overlay style if provided.
func GenerateMermaid(tree domain.AbstractNode, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	writeNode(&sb, tree, "")

	if overlay != nil && len(overlay.Changed) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef changed fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		seen := make(map[string]bool)
		for _, p := range overlay.Changed {
			id := nodeID(p)
			if !seen[id] {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s changed;\n", id))
			}
		}
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n domain.AbstractNode, path string) {
	id := nodeID(path)

	opener, closer := "[", "]"
	label := n.Type
	switch {
	case n.IsText():
		opener, closer = "(", ")"
		label = strconv.Quote(n.Text)
	case hasHandlers(n):
		opener, closer = "[[", "]]"
	}
	if cls, ok := n.Props["className"].(string); ok && cls != "" {
		label += "." + strings.Join(strings.Fields(cls), ".")
	}
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escapeLabel(label), closer))

	for i, c := range n.Children {
		childPath := strconv.Itoa(i)
		if path != "" {
			childPath = path + "/" + childPath
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, nodeID(childPath)))
		writeNode(sb, c, childPath)
	}
}

// ChangedPaths compares two trees positionally and returns the paths of nodes that
// were added or whose type, text or props differ. Removed nodes are not reported.
func ChangedPaths(prev, next domain.AbstractNode) []string {
	var out []string
	diffNode(&prev, next, "", &out)
	sort.Strings(out)
	return out
}

func diffNode(prev *domain.AbstractNode, next domain.AbstractNode, path string, out *[]string) {
	if prev == nil || prev.Type != next.Type || prev.Text != next.Text ||
		!reflect.DeepEqual(portableProps(*prev), portableProps(next)) {
		*out = append(*out, path)
	}
	for i, c := range next.Children {
		childPath := strconv.Itoa(i)
		if path != "" {
			childPath = path + "/" + childPath
		}
		var old *domain.AbstractNode
		if prev != nil && i < len(prev.Children) {
			old = &prev.Children[i]
		}
		diffNode(old, c, childPath, out)
	}
}

func portableProps(n domain.AbstractNode) map[string]any {
	n.Children = nil
	p := domain.Portable(n).Props
	if len(p) == 0 {
		return nil
	}
	return p
}

func hasHandlers(n domain.AbstractNode) bool {
	for _, v := range n.Props {
		if _, ok := v.(domain.EventHandler); ok {
			return true
		}
	}
	return false
}

func nodeID(path string) string {
	if path == "" {
		return "root"
	}
	return "n_" + sanitizeMermaidID(path)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
