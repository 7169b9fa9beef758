package memory

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// HTML serializes the subtree rooted at n. Attributes and style properties are sorted
// so the output is deterministic.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n.isText {
		sb.WriteString(html.EscapeString(n.text))
		return
	}

	sb.WriteString("<")
	sb.WriteString(n.tag)

	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := n.attrs[k].(type) {
		case bool:
			if v {
				fmt.Fprintf(sb, " %s", k)
			}
		default:
			fmt.Fprintf(sb, " %s=%q", k, html.EscapeString(fmt.Sprint(v)))
		}
	}

	if len(n.style) > 0 {
		props := make([]string, 0, len(n.style))
		for k := range n.style {
			props = append(props, k)
		}
		sort.Strings(props)
		decls := make([]string, len(props))
		for i, p := range props {
			decls[i] = p + ":" + n.style[p]
		}
		fmt.Fprintf(sb, " style=%q", html.EscapeString(strings.Join(decls, ";")))
	}

	sb.WriteString(">")
	sb.WriteString(html.EscapeString(n.text))
	for _, c := range n.children {
		c.writeHTML(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteString(">")
}
