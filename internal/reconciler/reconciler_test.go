package reconciler_test

import (
	"errors"
	"testing"

	"github.com/aretw0/graft/internal/reconciler"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	ops []string
}

func (r *recorder) hooks() domain.CommitHooks {
	return domain.CommitHooks{
		OnPrepareCommit: func(string) { r.ops = append(r.ops, "prepareForCommit") },
		OnCommit:        func(*domain.CommitEvent) { r.ops = append(r.ops, "resetAfterCommit") },
		OnMutation:      func(e *domain.MutationEvent) { r.ops = append(r.ops, e.Op) },
		OnMount:         func(*domain.MountEvent) { r.ops = append(r.ops, "commitMount") },
	}
}

type fixture struct {
	rec       *recorder
	backend   *memory.Backend
	adapter   *host.Adapter
	mount     *memory.Node
	container *reconciler.Container
	r         *reconciler.Reconciler
}

func newFixture() *fixture {
	rec := &recorder{}
	b := memory.New()
	a := host.New(b, host.WithHooks(rec.hooks()))
	mount := b.NewRoot("root")
	r := reconciler.New(a)
	return &fixture{
		rec:       rec,
		backend:   b,
		adapter:   a,
		mount:     mount,
		container: r.NewContainer(a.Container(mount, "c")),
		r:         r,
	}
}

func (f *fixture) render(t *testing.T, tree domain.AbstractNode) {
	t.Helper()
	require.NoError(t, f.r.Update(f.container, &tree))
}

func TestUpdate_FirstMountCallOrder(t *testing.T) {
	f := newFixture()
	f.render(t, domain.Element("div", nil,
		domain.Element("span", nil, domain.Text("hello")),
		domain.Element("input", map[string]any{"autoFocus": true}),
	))

	assert.Equal(t, []string{
		"appendInitialChild", // "hello" into span
		"appendInitialChild", // span into div
		"appendInitialChild", // input into div
		"prepareForCommit",
		"clearContainer",
		"appendChildToContainer",
		"resetAfterCommit",
		"commitMount",
	}, f.rec.ops)
	assert.Equal(t, "<root><div><span>hello</span><input type=\"text\"></input></div></root>", f.mount.HTML())
	assert.NotNil(t, f.backend.Focused())
}

func TestUpdate_TextAndProps(t *testing.T) {
	f := newFixture()
	f.render(t, domain.Element("p", map[string]any{"className": "a"}, domain.Text("hello")))
	f.rec.ops = nil

	f.render(t, domain.Element("p", map[string]any{"className": "b"}, domain.Text("bye")))
	assert.Equal(t, []string{"prepareForCommit", "commitUpdate", "commitTextUpdate", "resetAfterCommit"}, f.rec.ops)
	assert.Equal(t, `<root><p class="b">bye</p></root>`, f.mount.HTML())
}

func TestUpdate_NoChangeCommitsNothing(t *testing.T) {
	f := newFixture()
	tree := domain.Element("p", nil, domain.Text("same"))
	f.render(t, tree)
	f.rec.ops = nil

	f.render(t, tree)
	assert.Equal(t, []string{"prepareForCommit", "resetAfterCommit"}, f.rec.ops)
}

func TestUpdate_ChildListEdits(t *testing.T) {
	f := newFixture()
	f.render(t, domain.Element("ul", nil,
		domain.Element("li", nil, domain.Text("a")),
		domain.Element("li", nil, domain.Text("b")),
		domain.Element("li", nil, domain.Text("c")),
	))

	t.Run("Shrink", func(t *testing.T) {
		f.render(t, domain.Element("ul", nil,
			domain.Element("li", nil, domain.Text("a")),
		))
		assert.Equal(t, "<root><ul><li>a</li></ul></root>", f.mount.HTML())
	})

	t.Run("Replace Type", func(t *testing.T) {
		f.render(t, domain.Element("ul", nil,
			domain.Element("p", nil, domain.Text("x")),
			domain.Element("li", nil, domain.Text("y")),
		))
		assert.Equal(t, "<root><ul><p>x</p><li>y</li></ul></root>", f.mount.HTML())
	})

	t.Run("Replace Root", func(t *testing.T) {
		f.rec.ops = nil
		f.render(t, domain.Element("section", nil))
		assert.Equal(t, "<root><section></section></root>", f.mount.HTML())
		assert.Contains(t, f.rec.ops, "insertInContainerBefore")
		assert.Contains(t, f.rec.ops, "removeChildFromContainer")
	})
}

func TestUpdate_TextContentTransitions(t *testing.T) {
	f := newFixture()
	f.render(t, domain.Element("p", nil, domain.Element("b", nil, domain.Text("bold"))))

	f.render(t, domain.Element("p", map[string]any{"text": "plain"}))
	assert.Equal(t, "<root><p>plain</p></root>", f.mount.HTML())

	f.rec.ops = nil
	f.render(t, domain.Element("p", nil, domain.Text("again")))
	assert.Equal(t, "<root><p>again</p></root>", f.mount.HTML())
	assert.Contains(t, f.rec.ops, "resetTextContent")
}

func TestUpdate_RenderErrorKeepsTree(t *testing.T) {
	f := newFixture()
	f.render(t, domain.Element("div", nil, domain.Text("ok")))
	f.rec.ops = nil

	bad := domain.Element("div", nil, domain.Element("blink", nil))
	err := f.r.Update(f.container, &bad)
	assert.ErrorIs(t, err, domain.ErrInvalidType)
	assert.Empty(t, f.rec.ops, "a failed render phase never opens a commit")
	assert.Equal(t, "<root><div>ok</div></root>", f.mount.HTML())
	assert.Equal(t, "div", f.container.Tree().Type)
}

// flaky fails the first container append, then behaves.
type flaky struct {
	*host.Adapter
	failed bool
}

func (f *flaky) AppendChildToContainer(container, child *host.Instance) error {
	if !f.failed {
		f.failed = true
		return errors.New("backend unavailable")
	}
	return f.Adapter.AppendChildToContainer(container, child)
}

func TestUpdate_CommitErrorRemounts(t *testing.T) {
	b := memory.New()
	cfg := &flaky{Adapter: host.New(b)}
	mount := b.NewRoot("root")
	r := reconciler.New(cfg)
	c := r.NewContainer(cfg.Container(mount, "c"))

	tree := domain.Element("p", nil, domain.Text("x"))
	require.Error(t, r.Update(c, &tree))
	assert.Nil(t, c.Tree())

	_, err := cfg.PrepareForCommit(c.Root)
	require.NoError(t, err, "the bracket is closed even when the commit fails")
	require.NoError(t, cfg.ResetAfterCommit(c.Root))

	require.NoError(t, r.Update(c, &tree))
	assert.Equal(t, "<root><p>x</p></root>", mount.HTML())
}

func TestUnmountAndClear(t *testing.T) {
	f := newFixture()
	f.render(t, domain.Element("div", nil))

	require.NoError(t, f.r.Update(f.container, nil))
	assert.Equal(t, "<root></root>", f.mount.HTML())

	f.render(t, domain.Element("div", nil))
	require.NoError(t, f.r.Clear(f.container))
	assert.Equal(t, "<root></root>", f.mount.HTML())
	assert.Nil(t, f.container.Tree())
}
