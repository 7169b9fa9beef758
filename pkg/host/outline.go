package host

import (
	"fmt"
	"sort"
	"strings"
)

// Outline renders the subtree of inst as indented text, one instance per line.
// For a container only its children are printed.
//
//	div class="app"
//	  span
//	    "hello"
//	  button [click]
func Outline(inst *Instance) string {
	var sb strings.Builder
	if inst.container != nil {
		for _, c := range inst.children {
			writeOutline(&sb, c, 0)
		}
		return sb.String()
	}
	writeOutline(&sb, inst, 0)
	return sb.String()
}

func writeOutline(sb *strings.Builder, inst *Instance, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if inst.isText {
		fmt.Fprintf(sb, "%q\n", inst.text)
		return
	}

	sb.WriteString(inst.typ)

	attrs := inst.props.Attributes()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch v := attrs[name].(type) {
		case bool:
			if v {
				fmt.Fprintf(sb, " %s", name)
			}
		case string:
			fmt.Fprintf(sb, " %s=%q", name, v)
		default:
			fmt.Fprintf(sb, " %s=%v", name, v)
		}
	}

	if len(inst.props.Style) > 0 {
		props := make([]string, 0, len(inst.props.Style))
		for p := range inst.props.Style {
			props = append(props, p)
		}
		sort.Strings(props)
		decls := make([]string, len(props))
		for i, p := range props {
			decls[i] = p + ":" + inst.props.Style[p]
		}
		fmt.Fprintf(sb, " style=%q", strings.Join(decls, ";"))
	}

	if len(inst.listeners) > 0 {
		events := make([]string, 0, len(inst.listeners))
		for e := range inst.listeners {
			events = append(events, e)
		}
		sort.Strings(events)
		fmt.Fprintf(sb, " [%s]", strings.Join(events, " "))
	}

	if inst.props.Text != "" {
		fmt.Fprintf(sb, " %q", inst.props.Text)
	}
	sb.WriteString("\n")

	for _, c := range inst.children {
		writeOutline(sb, c, depth+1)
	}
}
