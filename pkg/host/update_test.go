package host_test

import (
	"testing"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitUpdate_ClassAndHandlerSwap(t *testing.T) {
	f1 := domain.On("f1", nil)
	f2 := domain.On("f2", nil)
	oldProps := map[string]any{"className": "a", "onClick": f1, "title": "t"}
	newProps := map[string]any{"className": "b", "onClick": f2}

	t.Run("Engine Payload", func(t *testing.T) {
		f := newFixture(t)
		btn := f.create(t, "button", oldProps)

		payload, err := f.adapter.PrepareUpdate(btn, "button", oldProps, newProps)
		require.NoError(t, err)
		require.NotNil(t, payload)
		require.NoError(t, f.adapter.CommitUpdate(btn, payload, "button", oldProps, newProps, nil))

		assertSwapped(t, btn.Node(), f1, f2)
	})

	t.Run("Nil Payload Diffs Props", func(t *testing.T) {
		f := newFixture(t)
		btn := f.create(t, "button", oldProps)

		require.NoError(t, f.adapter.CommitUpdate(btn, nil, "button", oldProps, newProps, nil))
		assertSwapped(t, btn.Node(), f1, f2)
	})

	t.Run("Repeated Update Never Stacks", func(t *testing.T) {
		f := newFixture(t)
		btn := f.create(t, "button", oldProps)

		require.NoError(t, f.adapter.CommitUpdate(btn, nil, "button", oldProps, newProps, nil))
		require.NoError(t, f.adapter.CommitUpdate(btn, nil, "button", oldProps, newProps, nil))
		assertSwapped(t, btn.Node(), f1, f2)
	})
}

func assertSwapped(t *testing.T, n any, f1, f2 domain.EventHandler) {
	t.Helper()
	node := n.(interface {
		Attr(string) (any, bool)
		Listeners(string) []domain.EventHandler
	})

	class, _ := node.Attr("class")
	assert.Equal(t, "b", class)
	_, hasTitle := node.Attr("title")
	assert.False(t, hasTitle, "attributes absent from the new props are removed")

	hs := node.Listeners(domain.EventClick)
	require.Len(t, hs, 1, "exactly one click binding")
	assert.True(t, domain.SameHandler(f2, hs[0]))
	assert.False(t, domain.SameHandler(f1, hs[0]))
}

func TestPrepareUpdate_NoChange(t *testing.T) {
	f := newFixture(t)
	props := map[string]any{"className": "a"}
	div := f.create(t, "div", props)

	payload, err := f.adapter.PrepareUpdate(div, "div", props, map[string]any{"className": "a"})
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestCommitUpdate_StylesAndText(t *testing.T) {
	f := newFixture(t)
	oldProps := map[string]any{"style": map[string]any{"color": "red", "margin": "0"}, "text": "x"}
	newProps := map[string]any{"style": map[string]any{"color": "blue"}, "text": "y"}
	p := f.create(t, "p", oldProps)

	handle := "next"
	require.NoError(t, f.adapter.CommitUpdate(p, nil, "p", oldProps, newProps, handle))

	n := nodeOf(p)
	color, _ := n.Style("color")
	assert.Equal(t, "blue", color)
	_, hasMargin := n.Style("margin")
	assert.False(t, hasMargin)
	assert.Equal(t, "y", n.Text())
	assert.Equal(t, handle, p.Handle())
}

func TestCommitUpdate_InvalidProps(t *testing.T) {
	f := newFixture(t)
	div := f.create(t, "div", nil)
	err := f.adapter.CommitUpdate(div, nil, "div", nil, map[string]any{"style": 3}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidProps)
}

type fnHandler func(domain.Event)

func (f fnHandler) HandleEvent(e domain.Event) { f(e) }

func TestNonComparableHandlerRejected(t *testing.T) {
	var hits []string
	f1 := fnHandler(func(domain.Event) { hits = append(hits, "f1") })
	f2 := fnHandler(func(domain.Event) { hits = append(hits, "f2") })

	t.Run("Create", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.adapter.CreateInstance("button", map[string]any{"onClick": f1}, f.container, f.ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidProps)
	})

	t.Run("Update", func(t *testing.T) {
		f := newFixture(t)
		save := domain.On("save", func(domain.Event) { hits = append(hits, "save") })
		oldProps := map[string]any{"onClick": save}
		btn := f.create(t, "button", oldProps)

		err := f.adapter.CommitUpdate(btn, nil, "button", oldProps, map[string]any{"onClick": f2}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidProps)

		hits = nil
		assert.Equal(t, 1, nodeOf(btn).Dispatch(domain.EventClick, nil))
		assert.Equal(t, []string{"save"}, hits, "the previous binding is untouched")
	})
}
