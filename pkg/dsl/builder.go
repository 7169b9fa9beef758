package dsl

import (
	"strings"

	"github.com/aretw0/graft/pkg/domain"
)

// handlerProps maps event names to their handler prop.
var handlerProps = map[string]string{
	domain.EventClick:   "onClick",
	domain.EventInput:   "onInput",
	domain.EventChange:  "onChange",
	domain.EventFocus:   "onFocus",
	domain.EventBlur:    "onBlur",
	domain.EventKeyDown: "onKeyDown",
}

// Builder configures one element of the tree.
type Builder struct {
	typ      string
	props    map[string]any
	style    map[string]any
	children []domain.AbstractNode
	texts    []string
}

// El starts an element of the given type.
func El(typ string) *Builder {
	return &Builder{typ: typ, props: make(map[string]any)}
}

// Text creates a text leaf.
func Text(text string) domain.AbstractNode {
	return domain.Text(text)
}

// Class sets the className prop.
func (b *Builder) Class(name string) *Builder {
	b.props["className"] = name
	return b
}

// ID sets the id prop.
func (b *Builder) ID(id string) *Builder {
	b.props["id"] = id
	return b
}

// Attr sets a passthrough attribute.
func (b *Builder) Attr(name string, value any) *Builder {
	b.props[name] = value
	return b
}

// Style sets one style property.
func (b *Builder) Style(property, value string) *Builder {
	if b.style == nil {
		b.style = make(map[string]any)
	}
	b.style[property] = value
	return b
}

// Hidden marks the element hidden, which also deprioritizes its subtree.
func (b *Builder) Hidden() *Builder {
	b.props["hidden"] = true
	return b
}

// AutoFocus requests focus once the element is mounted.
func (b *Builder) AutoFocus() *Builder {
	b.props["autoFocus"] = true
	return b
}

// On binds h to event ("click" binds onClick).
func (b *Builder) On(event string, h domain.EventHandler) *Builder {
	b.props[handlerProp(event)] = h
	return b
}

func handlerProp(event string) string {
	if p, ok := handlerProps[event]; ok {
		return p
	}
	if event == "" {
		return "on"
	}
	return "on" + strings.ToUpper(event[:1]) + event[1:]
}

// Content sets the text prop: the element holds the text itself instead of a child text instance.
func (b *Builder) Content(text string) *Builder {
	b.props["text"] = text
	return b
}

// Text appends a text leaf child.
func (b *Builder) Text(text string) *Builder {
	b.children = append(b.children, domain.Text(text))
	return b
}

// Child appends children. Arguments are *Builder or domain.AbstractNode values.
func (b *Builder) Child(children ...any) *Builder {
	for _, c := range children {
		switch n := c.(type) {
		case *Builder:
			b.children = append(b.children, n.Build())
		case domain.AbstractNode:
			b.children = append(b.children, n)
		case string:
			b.children = append(b.children, domain.Text(n))
		default:
			panic("dsl: unsupported child type")
		}
	}
	return b
}

// Build returns the abstract node. The builder can keep being used; later changes
// don't affect nodes already built.
func (b *Builder) Build() domain.AbstractNode {
	n := domain.AbstractNode{Type: b.typ}
	if len(b.props) > 0 || b.style != nil {
		n.Props = make(map[string]any, len(b.props)+1)
		for k, v := range b.props {
			n.Props[k] = v
		}
		if b.style != nil {
			style := make(map[string]any, len(b.style))
			for k, v := range b.style {
				style[k] = v
			}
			n.Props["style"] = style
		}
	}
	if len(b.children) > 0 {
		n.Children = append([]domain.AbstractNode(nil), b.children...)
	}
	return n
}
