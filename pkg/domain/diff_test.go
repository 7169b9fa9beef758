package domain

import (
	"reflect"
	"testing"
)

func TestDiffProps(t *testing.T) {
	f1 := On("f1", nil)
	f2 := On("f2", nil)
	bye := "bye"

	tests := []struct {
		name     string
		old      Props
		new      Props
		wantDiff *PropsDiff // nil means we expect no diff
	}{
		{
			name:     "No Changes",
			old:      Props{ClassName: "a", OnClick: f1},
			new:      Props{ClassName: "a", OnClick: f1},
			wantDiff: nil,
		},
		{
			name: "Class Changed",
			old:  Props{ClassName: "a"},
			new:  Props{ClassName: "b"},
			wantDiff: &PropsDiff{
				SetAttrs: map[string]any{"class": "b"},
			},
		},
		{
			name: "Attribute Added & Removed",
			old:  Props{Attrs: map[string]any{"title": "x", "role": "button"}},
			new:  Props{Attrs: map[string]any{"title": "x", "tabindex": 0}},
			wantDiff: &PropsDiff{
				SetAttrs:    map[string]any{"tabindex": 0},
				RemoveAttrs: []string{"role"},
			},
		},
		{
			name: "Style Changes",
			old:  Props{Style: map[string]string{"color": "red", "margin": "0"}},
			new:  Props{Style: map[string]string{"color": "blue"}},
			wantDiff: &PropsDiff{
				SetStyles:    map[string]string{"color": "blue"},
				RemoveStyles: []string{"margin"},
			},
		},
		{
			name: "Handler Swapped",
			old:  Props{OnClick: f1},
			new:  Props{OnClick: f2},
			wantDiff: &PropsDiff{
				Bindings: []BindingChange{{Event: EventClick, Old: f1, New: f2}},
			},
		},
		{
			name: "Handler Removed",
			old:  Props{OnInput: f1},
			new:  Props{},
			wantDiff: &PropsDiff{
				Bindings: []BindingChange{{Event: EventInput, Old: f1}},
			},
		},
		{
			name: "Text Changed",
			old:  Props{Text: "hello"},
			new:  Props{Text: "bye"},
			wantDiff: &PropsDiff{
				Text: &bye,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffProps(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("DiffProps() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("DiffProps() = nil, want %+v", tt.wantDiff)
			}

			if !reflect.DeepEqual(got.SetAttrs, tt.wantDiff.SetAttrs) {
				t.Errorf("SetAttrs = %v, want %v", got.SetAttrs, tt.wantDiff.SetAttrs)
			}
			if !reflect.DeepEqual(got.RemoveAttrs, tt.wantDiff.RemoveAttrs) {
				t.Errorf("RemoveAttrs = %v, want %v", got.RemoveAttrs, tt.wantDiff.RemoveAttrs)
			}
			if !reflect.DeepEqual(got.SetStyles, tt.wantDiff.SetStyles) {
				t.Errorf("SetStyles = %v, want %v", got.SetStyles, tt.wantDiff.SetStyles)
			}
			if !reflect.DeepEqual(got.RemoveStyles, tt.wantDiff.RemoveStyles) {
				t.Errorf("RemoveStyles = %v, want %v", got.RemoveStyles, tt.wantDiff.RemoveStyles)
			}
			if len(got.Bindings) != len(tt.wantDiff.Bindings) {
				t.Fatalf("Bindings = %v, want %v", got.Bindings, tt.wantDiff.Bindings)
			}
			for i, b := range got.Bindings {
				want := tt.wantDiff.Bindings[i]
				if b.Event != want.Event || !SameHandler(b.Old, want.Old) || !SameHandler(b.New, want.New) {
					t.Errorf("Bindings[%d] = %+v, want %+v", i, b, want)
				}
			}
			if !reflect.DeepEqual(got.Text, tt.wantDiff.Text) {
				t.Errorf("Text = %v, want %v", got.Text, tt.wantDiff.Text)
			}
		})
	}
}

func TestSameHandler(t *testing.T) {
	f1 := On("f", nil)
	f2 := On("f", nil)

	if !SameHandler(f1, f1) {
		t.Error("a handler must equal itself")
	}
	if SameHandler(f1, f2) {
		t.Error("distinct listeners with the same name must differ")
	}
	if !SameHandler(nil, nil) {
		t.Error("two nil handlers must be equal")
	}
	if SameHandler(f1, nil) {
		t.Error("handler and nil must differ")
	}
}

type funcHandler func(Event)

func (f funcHandler) HandleEvent(e Event) { f(e) }

func TestSameHandler_NonComparable(t *testing.T) {
	f := funcHandler(func(Event) {})
	// Must not panic on func-typed handlers.
	if SameHandler(f, f) {
		t.Error("non comparable handlers are never equal")
	}
}
