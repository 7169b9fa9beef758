// Package tree loads abstract trees from YAML or JSON documents.
//
// A node is either a string (a text leaf) or a mapping:
//
//	type: div
//	props:
//	  className: app
//	children:
//	  - type: span
//	    children: [hello]
//	  - type: button
//	    props: {onClick: save}
//
// Event props ("onClick", "onInput", ...) hold handler names, resolved through the
// Loader. A "handler:" prefix is accepted, so persisted snapshots load back.
package tree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/aretw0/graft/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader decodes trees and resolves handler names to stable handlers.
type Loader struct {
	mu       sync.Mutex
	handlers map[string]domain.EventHandler
	strict   bool
}

// Option configures the Loader.
type Option func(*Loader)

// WithHandler registers a named handler.
func WithHandler(name string, h domain.EventHandler) Option {
	return func(l *Loader) {
		l.handlers[name] = h
	}
}

// WithHandlers registers several named handlers.
func WithHandlers(hs map[string]domain.EventHandler) Option {
	return func(l *Loader) {
		for name, h := range hs {
			l.handlers[name] = h
		}
	}
}

// Strict makes unknown handler names an error. By default an unknown name resolves
// to a no-op listener, created once per name.
func Strict() Option {
	return func(l *Loader) {
		l.strict = true
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{handlers: make(map[string]domain.EventHandler)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads a tree from path. Files ending in .json are parsed as JSON, anything else as YAML.
func (l *Loader) LoadFile(path string) (domain.AbstractNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.AbstractNode{}, fmt.Errorf("failed to read tree: %w", err)
	}

	var v any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &v); err != nil {
			return domain.AbstractNode{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &v); err != nil {
			return domain.AbstractNode{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return l.Decode(v)
}

// Parse decodes a YAML document. JSON input is valid YAML.
func (l *Loader) Parse(data []byte) (domain.AbstractNode, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return domain.AbstractNode{}, fmt.Errorf("failed to parse tree: %w", err)
	}
	return l.Decode(v)
}

// Decode converts a generic value (as produced by yaml or json unmarshaling) into a tree.
func (l *Loader) Decode(v any) (domain.AbstractNode, error) {
	return l.decode(v, "$")
}

func (l *Loader) decode(v any, path string) (domain.AbstractNode, error) {
	switch n := v.(type) {
	case string:
		return domain.Text(n), nil
	case map[string]any:
		return l.decodeMap(n, path)
	case nil:
		return domain.AbstractNode{}, fmt.Errorf("%s: empty node", path)
	default:
		return domain.AbstractNode{}, fmt.Errorf("%s: unexpected %T", path, v)
	}
}

func (l *Loader) decodeMap(m map[string]any, path string) (domain.AbstractNode, error) {
	typ, _ := m["type"].(string)
	text, hasText := m["text"].(string)

	if typ == "" && hasText {
		typ = domain.TextType
	}
	if typ == "" {
		return domain.AbstractNode{}, fmt.Errorf("%s: missing type", path)
	}
	if typ == domain.TextType {
		return domain.Text(text), nil
	}

	node := domain.AbstractNode{Type: typ}

	if raw, ok := m["props"]; ok && raw != nil {
		props, ok := raw.(map[string]any)
		if !ok {
			return node, fmt.Errorf("%s.props: expected a mapping, got %T", path, raw)
		}
		resolved, err := l.resolveProps(props, path)
		if err != nil {
			return node, err
		}
		node.Props = resolved
	}

	if raw, ok := m["children"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return node, fmt.Errorf("%s.children: expected a list, got %T", path, raw)
		}
		for i, c := range list {
			child, err := l.decode(c, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return node, err
			}
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

func (l *Loader) resolveProps(props map[string]any, path string) (map[string]any, error) {
	out := make(map[string]any, len(props))
	for k, v := range props {
		name, ok := v.(string)
		if !ok || !isEventProp(k) {
			out[k] = v
			continue
		}
		h, err := l.Handler(name)
		if err != nil {
			return nil, fmt.Errorf("%s.props.%s: %w", path, k, err)
		}
		out[k] = h
	}
	return out, nil
}

// Handler resolves a handler name. The same name always yields the same handler.
func (l *Loader) Handler(name string) (domain.EventHandler, error) {
	name = strings.TrimPrefix(name, "handler:")

	l.mu.Lock()
	defer l.mu.Unlock()
	if h, ok := l.handlers[name]; ok {
		return h, nil
	}
	if l.strict {
		return nil, fmt.Errorf("unknown handler %q", name)
	}
	h := domain.On(name, nil)
	l.handlers[name] = h
	return h, nil
}

// isEventProp matches "onClick" style keys.
func isEventProp(k string) bool {
	if len(k) < 3 || !strings.HasPrefix(k, "on") {
		return false
	}
	return unicode.IsUpper(rune(k[2]))
}
