package registry

import (
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// SVGNamespace is the namespace switched on by the "svg" kind.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Default returns a registry populated with a DOM-like set of kinds.
func Default() *Registry {
	r := NewRegistry()
	for _, name := range []string{
		"div", "section", "header", "footer", "main", "nav", "article",
		"p", "ul", "ol", "li", "form", "label", "h1", "h2", "h3", "img",
	} {
		r.MustRegister(Kind{Name: name})
	}
	for _, name := range []string{"span", "a", "b", "i", "em", "strong", "code", "button"} {
		r.MustRegister(Kind{Name: name, Inline: true})
	}
	r.MustRegister(
		Kind{Name: "input", Inline: true, Init: initInput},
		Kind{Name: "textarea", OpaqueText: true},
		Kind{Name: "option", OpaqueText: true},
		Kind{Name: "select"},
		Kind{Name: "svg", Namespace: SVGNamespace},
		Kind{Name: "g", Namespace: SVGNamespace},
		Kind{Name: "path", Namespace: SVGNamespace},
	)
	return r
}

// initInput defaults the input type attribute.
func initInput(node ports.Node, props domain.Props) error {
	if _, ok := props.Attrs["type"]; !ok {
		node.SetAttribute("type", "text")
	}
	return nil
}
