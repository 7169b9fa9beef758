package host_test

import (
	"testing"

	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/host"
	"github.com/aretw0/graft/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend   *memory.Backend
	adapter   *host.Adapter
	mount     *memory.Node
	container *host.Instance
	ctx       *host.Context
}

func newFixture(t *testing.T, opts ...host.Option) *fixture {
	t.Helper()
	b := memory.New()
	a := host.New(b, opts...)
	mount := b.NewRoot("root")
	c := a.Container(mount, "test")
	return &fixture{
		backend:   b,
		adapter:   a,
		mount:     mount,
		container: c,
		ctx:       a.RootHostContext(c),
	}
}

func (f *fixture) create(t *testing.T, typ string, props map[string]any) *host.Instance {
	t.Helper()
	inst, err := f.adapter.CreateInstance(typ, props, f.container, f.adapter.ChildHostContext(f.ctx, typ, f.container), nil)
	require.NoError(t, err)
	return inst
}

func (f *fixture) text(t *testing.T, s string) *host.Instance {
	t.Helper()
	inst, err := f.adapter.CreateTextInstance(s, f.container, f.ctx, nil)
	require.NoError(t, err)
	return inst
}

func nodeOf(inst *host.Instance) *memory.Node {
	return inst.Node().(*memory.Node)
}

func TestContextPropagation(t *testing.T) {
	f := newFixture(t)
	a, root := f.adapter, f.container

	t.Run("No Specialization Returns Parent", func(t *testing.T) {
		assert.Same(t, f.ctx, a.ChildHostContext(f.ctx, "div", root))
		assert.Same(t, f.ctx, a.ChildHostContext(f.ctx, "unknown", root))
	})

	t.Run("Namespace", func(t *testing.T) {
		svg := a.ChildHostContext(f.ctx, "svg", root)
		assert.Equal(t, registry.SVGNamespace, svg.Namespace)
		assert.Equal(t, 1, svg.Depth)
		assert.Same(t, f.ctx, svg.Parent)
		assert.Same(t, svg, a.ChildHostContext(svg, "g", root), "g does not change the svg context")
	})

	t.Run("Inline", func(t *testing.T) {
		span := a.ChildHostContext(f.ctx, "span", root)
		assert.True(t, span.Inline)
		assert.Same(t, span, a.ChildHostContext(span, "b", root))
	})

	t.Run("Memoized", func(t *testing.T) {
		first := a.ChildHostContext(f.ctx, "button", root)
		assert.Same(t, first, a.ChildHostContext(f.ctx, "button", root))
	})
}

func TestShouldSetTextContent(t *testing.T) {
	a := host.New(memory.New())
	assert.True(t, a.ShouldSetTextContent("textarea", nil))
	assert.True(t, a.ShouldSetTextContent("span", map[string]any{"text": "hi"}))
	assert.True(t, a.ShouldSetTextContent("span", map[string]any{"children": "hi"}))
	assert.False(t, a.ShouldSetTextContent("span", map[string]any{"children": []any{"hi"}}))
	assert.False(t, a.ShouldSetTextContent("div", nil))
}

func TestShouldDeprioritizeSubtree(t *testing.T) {
	a := host.New(memory.New())
	assert.True(t, a.ShouldDeprioritizeSubtree("div", map[string]any{"hidden": true}))
	assert.False(t, a.ShouldDeprioritizeSubtree("div", nil))
}

func TestCreateInstance(t *testing.T) {
	f := newFixture(t)
	click := domain.On("save", nil)

	inst := f.create(t, "button", map[string]any{
		"className": "btn",
		"style":     map[string]any{"color": "red"},
		"title":     "Save",
		"onClick":   click,
	})

	n := nodeOf(inst)
	assert.Nil(t, n.Parent(), "created instances are unattached")
	assert.Nil(t, inst.Parent())

	class, _ := n.Attr("class")
	assert.Equal(t, "btn", class)
	title, _ := n.Attr("title")
	assert.Equal(t, "Save", title)
	color, _ := n.Style("color")
	assert.Equal(t, "red", color)

	require.Len(t, n.Listeners(domain.EventClick), 1)
	assert.True(t, domain.SameHandler(click, inst.Listener(domain.EventClick)))
}

func TestCreateInstance_Namespace(t *testing.T) {
	f := newFixture(t)
	svgCtx := f.adapter.ChildHostContext(f.ctx, "svg", f.container)

	g, err := f.adapter.CreateInstance("g", nil, f.container, svgCtx, nil)
	require.NoError(t, err)
	assert.Equal(t, registry.SVGNamespace, nodeOf(g).Namespace())
}

func TestCreateInstance_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.adapter.CreateInstance("blink", nil, f.container, f.ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidType)
	var typeErr *domain.InvalidTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "blink", typeErr.Type)

	_, err = f.adapter.CreateInstance("div", map[string]any{"onClick": 42}, f.container, f.ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidProps)

	assert.Equal(t, 0, f.backend.Created(), "failed creations allocate nothing")
}

func TestCreateInstance_InputDefaults(t *testing.T) {
	f := newFixture(t)
	input := f.create(t, "input", nil)
	typ, ok := nodeOf(input).Attr("type")
	require.True(t, ok)
	assert.Equal(t, "text", typ)
}

func TestCreateInstance_OpaqueText(t *testing.T) {
	f := newFixture(t)
	ta := f.create(t, "textarea", map[string]any{"text": "notes"})
	assert.Equal(t, "notes", nodeOf(ta).Text())
	assert.Equal(t, "notes", ta.Text())
}

func TestHandlePassThrough(t *testing.T) {
	f := newFixture(t)
	handle := &struct{ name string }{"fiber"}
	inst, err := f.adapter.CreateInstance("div", nil, f.container, f.ctx, handle)
	require.NoError(t, err)
	assert.Same(t, handle, inst.Handle())
}

func TestCreateInstance_TextContent(t *testing.T) {
	for _, key := range []string{"text", "children"} {
		t.Run(key, func(t *testing.T) {
			f := newFixture(t)
			span := f.create(t, "span", map[string]any{key: "hi"})
			assert.Equal(t, "<span>hi</span>", nodeOf(span).HTML())
			assert.Equal(t, "hi", span.Props().Text)
		})
	}
}
