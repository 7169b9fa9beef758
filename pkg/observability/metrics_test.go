package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	backend := memory.New()
	root := backend.NewRoot("root")
	r := graft.New(backend, graft.WithHooks(domain.ChainHooks(m.Hooks(), observability.LogHooks(logger))))

	ctx := context.Background()
	tree := domain.Element("div", nil,
		domain.Element("input", map[string]any{"autoFocus": true}),
	)
	require.NoError(t, r.Render(ctx, tree, root, nil))
	require.NoError(t, r.Render(ctx, domain.Element("div", nil), root, nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Commits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("appendChildToContainer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("removeChild")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mounts.WithLabelValues("input")))

	assert.Contains(t, buf.String(), "msg=commit")
	assert.Contains(t, buf.String(), "sequence=2")
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Hooks().OnCommit(&domain.CommitEvent{Mutations: 3})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commits))
}

func TestMetrics_RenderPhaseNotCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	backend := memory.New()
	root := backend.NewRoot("root")
	r := graft.New(backend, graft.WithHooks(m.Hooks()))

	// span is appended into the new div before blink fails the render phase.
	broken := domain.Element("div", nil,
		domain.Element("span", nil),
		domain.Element("blink", nil),
	)
	err := r.Render(context.Background(), broken, root, nil)
	require.ErrorIs(t, err, domain.ErrInvalidType)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.Commits))
	assert.Equal(t, 0, testutil.CollectAndCount(m.Mutations), "a pass that never commits records no mutations")

	require.NoError(t, r.Render(context.Background(), domain.Element("div", nil, domain.Element("span", nil)), root, nil))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Mutations.WithLabelValues("appendInitialChild")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("appendChildToContainer")))
}
