package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Golden(t *testing.T) {
	g := goldie.New(t)

	for _, format := range []string{FormatOutline, FormatHTML, FormatMermaid} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(context.Background(), RenderOptions{
				Files:  []string{"testdata/inbox.yaml", "testdata/inbox_v2.yaml"},
				Format: format,
			}, &buf)
			require.NoError(t, err)
			g.Assert(t, "update_"+format, buf.Bytes())
		})
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := Render(context.Background(), RenderOptions{
		Files:  []string{"testdata/inbox.yaml"},
		Format: FormatJSON,
	}, &buf)
	require.NoError(t, err)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.Equal(t, uint64(1), snap.Sequence)
	assert.NotEmpty(t, snap.ContainerID)
	assert.Equal(t, "handler:archive", snap.Tree.Children[2].Props["onClick"])
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	err := Render(context.Background(), RenderOptions{
		Files:  []string{"testdata/inbox.yaml"},
		Format: FormatMarkdown,
	}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "```\ndiv class=\"app\"\n")
	assert.Contains(t, buf.String(), "| 1 |")
}

func TestRender_Errors(t *testing.T) {
	ctx := context.Background()

	err := Render(ctx, RenderOptions{}, &bytes.Buffer{})
	assert.Error(t, err)

	err = Render(ctx, RenderOptions{Files: []string{"testdata/inbox.yaml"}, Format: "svg"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown format")

	err = Render(ctx, RenderOptions{Files: []string{"testdata/missing.yaml"}}, &bytes.Buffer{})
	assert.Error(t, err)

	err = Render(ctx, RenderOptions{Files: []string{"testdata/unknown.yaml"}}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, domain.ErrInvalidType), "got %v", err)

	err = Render(ctx, RenderOptions{Files: []string{"testdata/inbox.yaml"}, Strict: true}, &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown handler "archive"`)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("testdata/inbox.yaml", nil, false))

	err := Validate("testdata/unknown.yaml", nil, false)
	require.Error(t, err)
	// Each unknown type is reported once.
	assert.Equal(t, 1, strings.Count(err.Error(), "marquee"))
	assert.Contains(t, err.Error(), "blink")
}
