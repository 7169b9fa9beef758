package domain

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Event names understood by the recognized handler props.
const (
	EventClick   = "click"
	EventInput   = "input"
	EventChange  = "change"
	EventFocus   = "focus"
	EventBlur    = "blur"
	EventKeyDown = "keydown"
)

// Event is delivered to a bound EventHandler by the backend.
type Event struct {
	Type string
	Data map[string]any
}

// EventHandler receives events dispatched by a host node.
// Implementations must be comparable (pointer types): the adapter compares the old and
// new handler of a binding to decide whether it changed. DecodeProps rejects the rest.
type EventHandler interface {
	HandleEvent(Event)
}

// Listener is the stock EventHandler wrapping a plain function.
type Listener struct {
	Name string
	fn   func(Event)
}

// On creates a named Listener. Every call returns a distinct handler.
func On(name string, fn func(Event)) *Listener {
	return &Listener{Name: name, fn: fn}
}

// HandleEvent invokes the wrapped function.
func (l *Listener) HandleEvent(e Event) {
	if l.fn != nil {
		l.fn(e)
	}
}

// MarshalJSON encodes the listener by name so trees with bindings can be persisted.
func (l *Listener) MarshalJSON() ([]byte, error) {
	return json.Marshal(HandlerRef(l))
}

// SameHandler reports whether a and b are the same binding.
// Handlers whose dynamic type is not comparable are never considered equal.
func SameHandler(a, b EventHandler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Props is the decoded form of an AbstractNode's raw props.
// Recognized keys get typed fields; everything else lands in Attrs.
type Props struct {
	ClassName string            `mapstructure:"className"`
	Style     map[string]string `mapstructure:"style"`
	ID        string            `mapstructure:"id"`
	Hidden    bool              `mapstructure:"hidden"`
	AutoFocus bool              `mapstructure:"autoFocus"`

	// Text is the merged text content of nodes whose text is set directly on the node.
	Text string `mapstructure:"text"`

	OnClick   EventHandler `mapstructure:"onClick"`
	OnInput   EventHandler `mapstructure:"onInput"`
	OnChange  EventHandler `mapstructure:"onChange"`
	OnFocus   EventHandler `mapstructure:"onFocus"`
	OnBlur    EventHandler `mapstructure:"onBlur"`
	OnKeyDown EventHandler `mapstructure:"onKeyDown"`

	// Attrs is the passthrough bag for backend specific attributes.
	Attrs map[string]any `mapstructure:",remain"`
}

// DecodeProps validates raw props and decodes them into the Props union.
func DecodeProps(raw map[string]any) (Props, error) {
	var p Props
	if len(raw) == 0 {
		return p, nil
	}
	raw = normalizeText(raw)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, err
	}
	for event, h := range p.Bindings() {
		if !reflect.TypeOf(h).Comparable() {
			return p, fmt.Errorf("%s handler %T is not comparable", event, h)
		}
	}
	return p, nil
}

// normalizeText folds a string "children" prop into "text". An explicit "text" wins.
func normalizeText(raw map[string]any) map[string]any {
	c, ok := raw["children"].(string)
	if !ok {
		return raw
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "children" {
			out[k] = v
		}
	}
	if _, ok := out["text"]; !ok {
		out["text"] = c
	}
	return out
}

// Bindings returns the non-nil event bindings keyed by event name.
func (p Props) Bindings() map[string]EventHandler {
	b := make(map[string]EventHandler)
	for event, h := range map[string]EventHandler{
		EventClick:   p.OnClick,
		EventInput:   p.OnInput,
		EventChange:  p.OnChange,
		EventFocus:   p.OnFocus,
		EventBlur:    p.OnBlur,
		EventKeyDown: p.OnKeyDown,
	} {
		if h != nil {
			b[event] = h
		}
	}
	return b
}

// Attributes flattens the attribute-like fields into the map assigned to the host node.
// Nil passthrough values are dropped.
func (p Props) Attributes() map[string]any {
	attrs := make(map[string]any, len(p.Attrs)+3)
	for k, v := range p.Attrs {
		if v == nil {
			continue
		}
		attrs[k] = v
	}
	if p.ClassName != "" {
		attrs["class"] = p.ClassName
	}
	if p.ID != "" {
		attrs["id"] = p.ID
	}
	if p.Hidden {
		attrs["hidden"] = true
	}
	return attrs
}

// HasText reports whether raw props carry a merged text payload, as a string
// "text" or "children" value.
func HasText(raw map[string]any) bool {
	if _, ok := raw["text"].(string); ok {
		return true
	}
	_, ok := raw["children"].(string)
	return ok
}
