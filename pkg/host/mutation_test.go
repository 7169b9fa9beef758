package host_test

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(insts []*host.Instance) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = inst.Text()
	}
	return out
}

func TestOrderingFidelity(t *testing.T) {
	f := newFixture(t)
	ul := f.create(t, "ul", nil)
	a, b, c, d := f.text(t, "a"), f.text(t, "b"), f.text(t, "c"), f.text(t, "d")

	require.NoError(t, f.adapter.AppendInitialChild(ul, a))
	require.NoError(t, f.adapter.AppendInitialChild(ul, b))
	require.NoError(t, f.adapter.AppendInitialChild(ul, c))
	require.NoError(t, f.adapter.AppendChildToContainer(f.container, ul))

	require.NoError(t, f.adapter.InsertBefore(ul, d, b))
	assert.Equal(t, []string{"a", "d", "b", "c"}, texts(ul.Children()))
	assert.Equal(t, "<root><ul>adbc</ul></root>", f.mount.HTML())

	// Moving an attached child keeps a single parent.
	require.NoError(t, f.adapter.AppendChild(ul, a))
	assert.Equal(t, []string{"d", "b", "c", "a"}, texts(ul.Children()))
	assert.Equal(t, "<root><ul>dbca</ul></root>", f.mount.HTML())
}

func TestOrderingFidelity_RandomReplay(t *testing.T) {
	tests := []struct {
		name  string
		seed  int64
		steps int
	}{
		{name: "Short", seed: 1, steps: 50},
		{name: "Long", seed: 42, steps: 500},
		{name: "Other Seed", seed: 20260101, steps: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(tt.seed))
			f := newFixture(t)
			ul := f.create(t, "ul", nil)
			require.NoError(t, f.adapter.AppendChildToContainer(f.container, ul))

			var model []string
			byText := make(map[string]*host.Instance)
			var detached []*host.Instance
			next := 0

			fresh := func() *host.Instance {
				next++
				inst := f.text(t, fmt.Sprintf("n%d", next))
				byText[inst.Text()] = inst
				return inst
			}
			pick := func() *host.Instance {
				if len(model) > 0 && rng.Intn(2) == 0 {
					return byText[model[rng.Intn(len(model))]]
				}
				return fresh()
			}

			for step := 0; step < tt.steps; step++ {
				var op string
				switch n := rng.Intn(3); {
				case n == 0 || len(model) == 0:
					child := pick()
					op = "append " + child.Text()
					require.NoError(t, f.adapter.AppendChild(ul, child), op)
					model = slices.DeleteFunc(model, func(s string) bool { return s == child.Text() })
					model = append(model, child.Text())

				case n == 1:
					child := pick()
					ref := byText[model[rng.Intn(len(model))]]
					op = "insert " + child.Text() + " before " + ref.Text()
					require.NoError(t, f.adapter.InsertBefore(ul, child, ref), op)
					if child != ref {
						model = slices.DeleteFunc(model, func(s string) bool { return s == child.Text() })
						idx := slices.Index(model, ref.Text())
						model = slices.Insert(model, idx, child.Text())
					}

				default:
					victim := byText[model[rng.Intn(len(model))]]
					op = "remove " + victim.Text()
					require.NoError(t, f.adapter.RemoveChild(ul, victim), op)
					model = slices.DeleteFunc(model, func(s string) bool { return s == victim.Text() })
					delete(byText, victim.Text())
					detached = append(detached, victim)
				}

				want := append([]string{}, model...)
				require.Equal(t, want, texts(ul.Children()), "step %d: %s", step, op)

				backendTexts := make([]string, 0, len(model))
				for _, n := range nodeOf(ul).Children() {
					backendTexts = append(backendTexts, n.Text())
				}
				require.Equal(t, want, backendTexts, "step %d: %s (backend)", step, op)
			}

			for _, inst := range detached {
				assert.True(t, inst.IsDetached(), "%s stays detached", inst.Text())
				assert.Nil(t, inst.Parent())
			}
		})
	}
}

func TestInsertBefore_ReferenceNotFound(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "p", nil)
	other := f.create(t, "p", nil)
	a, stray, x := f.text(t, "a"), f.text(t, "stray"), f.text(t, "x")

	require.NoError(t, f.adapter.AppendInitialChild(p, a))
	require.NoError(t, f.adapter.AppendInitialChild(other, stray))

	err := f.adapter.InsertBefore(p, x, stray)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Equal(t, []string{"a"}, texts(p.Children()), "a failed insert leaves the tree untouched")
	assert.Nil(t, x.Parent())

	err = f.adapter.InsertInContainerBefore(f.container, x, a)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
}

func TestMutation_WrongTarget(t *testing.T) {
	f := newFixture(t)
	txt := f.text(t, "leaf")
	div := f.create(t, "div", nil)

	assert.ErrorIs(t, f.adapter.AppendChild(txt, div), domain.ErrInvalidType)
	assert.ErrorIs(t, f.adapter.AppendChild(f.container, div), domain.ErrInvalidType)
	assert.ErrorIs(t, f.adapter.AppendChildToContainer(div, txt), domain.ErrInvalidType)
}

func TestMutation_Cycle(t *testing.T) {
	f := newFixture(t)
	outer := f.create(t, "div", nil)
	inner := f.create(t, "div", nil)
	require.NoError(t, f.adapter.AppendInitialChild(outer, inner))

	assert.Error(t, f.adapter.AppendChild(inner, outer))
}

func TestRemoveChild_DetachesSubtree(t *testing.T) {
	f := newFixture(t)
	div := f.create(t, "div", nil)
	btn := f.create(t, "button", map[string]any{"onClick": domain.On("f", nil)})
	label := f.text(t, "go")

	require.NoError(t, f.adapter.AppendInitialChild(btn, label))
	require.NoError(t, f.adapter.AppendInitialChild(div, btn))
	require.NoError(t, f.adapter.AppendChildToContainer(f.container, div))

	require.NoError(t, f.adapter.RemoveChild(div, btn))

	assert.Empty(t, div.Children())
	assert.Nil(t, btn.Parent())
	assert.Nil(t, nodeOf(btn).Parent())
	assert.True(t, btn.IsDetached())
	assert.True(t, label.IsDetached())
	assert.Equal(t, 0, nodeOf(btn).ListenerCount(), "bindings of removed subtrees are released")
	assert.Equal(t, "<root><div></div></root>", f.mount.HTML())

	t.Run("Mutations On Removed Instances Fail", func(t *testing.T) {
		assert.ErrorIs(t, f.adapter.AppendChild(div, btn), domain.ErrDetachedMutation)
		assert.ErrorIs(t, f.adapter.CommitTextUpdate(label, "go", "stop"), domain.ErrDetachedMutation)
		assert.ErrorIs(t, f.adapter.CommitUpdate(btn, nil, "button", nil, nil, nil), domain.ErrDetachedMutation)
		assert.ErrorIs(t, f.adapter.RemoveChild(div, btn), domain.ErrDetachedMutation)
	})

	t.Run("Removing A Non-Child", func(t *testing.T) {
		stray := f.create(t, "span", nil)
		assert.ErrorIs(t, f.adapter.RemoveChild(div, stray), domain.ErrReferenceNotFound)
	})
}

func TestRemoveChildFromContainer(t *testing.T) {
	f := newFixture(t)
	a, b := f.create(t, "p", nil), f.create(t, "p", nil)
	require.NoError(t, f.adapter.AppendChildToContainer(f.container, a))
	require.NoError(t, f.adapter.AppendChildToContainer(f.container, b))

	require.NoError(t, f.adapter.RemoveChildFromContainer(f.container, a))
	require.Len(t, f.container.Children(), 1)
	assert.Same(t, b, f.container.Children()[0])
	assert.True(t, a.IsDetached())
}

func TestClearContainer(t *testing.T) {
	f := newFixture(t)
	a, b := f.create(t, "p", nil), f.text(t, "x")
	require.NoError(t, f.adapter.AppendChildToContainer(f.container, a))
	require.NoError(t, f.adapter.AppendChildToContainer(f.container, b))

	require.NoError(t, f.adapter.ClearContainer(f.container))
	assert.Empty(t, f.container.Children())
	assert.Empty(t, f.mount.Children())
	assert.True(t, a.IsDetached())
	assert.True(t, b.IsDetached())
}

func TestCommitTextUpdate_SetsNewRegardlessOfOld(t *testing.T) {
	f := newFixture(t)
	txt := f.text(t, "hello")

	require.NoError(t, f.adapter.CommitTextUpdate(txt, "something else entirely", "bye"))
	assert.Equal(t, "bye", txt.Text())
	assert.Equal(t, "bye", nodeOf(txt).Text())

	div := f.create(t, "div", nil)
	assert.ErrorIs(t, f.adapter.CommitTextUpdate(div, "", "x"), domain.ErrInvalidType)
}

func TestResetTextContent(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "p", map[string]any{"text": "inline"})
	require.NoError(t, f.adapter.ResetTextContent(p))
	assert.Equal(t, "", nodeOf(p).Text())
	assert.Equal(t, "", p.Text())

	assert.ErrorIs(t, f.adapter.ResetTextContent(f.text(t, "x")), domain.ErrInvalidType)
}
