package domain

import (
	"reflect"
	"sort"
)

// BindingChange swaps the handler bound to one event.
// A nil New removes the binding.
type BindingChange struct {
	Event string
	Old   EventHandler
	New   EventHandler
}

// PropsDiff represents the changes between two Props values.
// It is the update payload handed from PrepareUpdate to CommitUpdate.
type PropsDiff struct {
	// SetAttrs contains added or changed attributes.
	SetAttrs map[string]any

	// RemoveAttrs lists attributes present before and absent now, sorted.
	RemoveAttrs []string

	// SetStyles contains added or changed style properties.
	SetStyles map[string]string

	// RemoveStyles lists style properties to drop, sorted.
	RemoveStyles []string

	// Bindings lists the event bindings whose handler changed, sorted by event.
	Bindings []BindingChange

	// Text is set when the merged text payload changed.
	Text *string
}

// DiffProps calculates the difference between oldProps and newProps.
// It returns nil when nothing changed.
func DiffProps(oldProps, newProps Props) *PropsDiff {
	d := &PropsDiff{}

	d.SetAttrs, d.RemoveAttrs = diffAttrs(oldProps.Attributes(), newProps.Attributes())
	d.SetStyles, d.RemoveStyles = diffStyles(oldProps.Style, newProps.Style)
	d.Bindings = diffBindings(oldProps.Bindings(), newProps.Bindings())

	if oldProps.Text != newProps.Text {
		text := newProps.Text
		d.Text = &text
	}

	if d.IsEmpty() {
		return nil
	}
	return d
}

func diffAttrs(old, new map[string]any) (map[string]any, []string) {
	var set map[string]any
	for k, newVal := range new {
		oldVal, exists := old[k]
		if exists && reflect.DeepEqual(oldVal, newVal) {
			continue
		}
		if set == nil {
			set = make(map[string]any)
		}
		set[k] = newVal
	}

	var removed []string
	for k := range old {
		if _, exists := new[k]; !exists {
			removed = append(removed, k)
		}
	}
	sort.Strings(removed)
	return set, removed
}

func diffStyles(old, new map[string]string) (map[string]string, []string) {
	var set map[string]string
	for k, newVal := range new {
		if oldVal, exists := old[k]; exists && oldVal == newVal {
			continue
		}
		if set == nil {
			set = make(map[string]string)
		}
		set[k] = newVal
	}

	var removed []string
	for k := range old {
		if _, exists := new[k]; !exists {
			removed = append(removed, k)
		}
	}
	sort.Strings(removed)
	return set, removed
}

func diffBindings(old, new map[string]EventHandler) []BindingChange {
	events := make(map[string]struct{}, len(old)+len(new))
	for e := range old {
		events[e] = struct{}{}
	}
	for e := range new {
		events[e] = struct{}{}
	}

	var changes []BindingChange
	for e := range events {
		if SameHandler(old[e], new[e]) {
			continue
		}
		changes = append(changes, BindingChange{Event: e, Old: old[e], New: new[e]})
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Event < changes[j].Event
	})
	return changes
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *PropsDiff) IsEmpty() bool {
	return len(d.SetAttrs) == 0 &&
		len(d.RemoveAttrs) == 0 &&
		len(d.SetStyles) == 0 &&
		len(d.RemoveStyles) == 0 &&
		len(d.Bindings) == 0 &&
		d.Text == nil
}
