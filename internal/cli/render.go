package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/presentation/graph"
	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/aretw0/graft/pkg/registry"
	"github.com/aretw0/graft/pkg/tree"
	"github.com/muesli/termenv"
)

// Output formats accepted by Render.
const (
	FormatOutline  = "outline"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatMermaid  = "mermaid"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatOutline, FormatHTML, FormatJSON, FormatMarkdown, FormatMermaid}

// RenderOptions contains all the configuration for the render command.
type RenderOptions struct {
	// Files are tree documents. The first one mounts, every following one updates the same container.
	Files  []string
	Format string
	Debug  bool
	Strict bool

	// Color enables terminal styling: colored outlines and glamour markdown.
	Color bool

	// Registry overrides the default kinds.
	Registry *registry.Registry
}

// env is one in-memory host plus the renderer committing into it.
type env struct {
	backend  *memory.Backend
	root     *memory.Node
	renderer *graft.Renderer
	loader   *tree.Loader
	logger   *slog.Logger

	prev *domain.AbstractNode
	last *domain.AbstractNode
}

func newEnv(opts RenderOptions, logger *slog.Logger) *env {
	backend := memory.New()
	rOpts := []graft.Option{
		graft.WithLogger(logger),
		graft.WithHooks(observability.LogHooks(logger)),
	}
	if opts.Registry != nil {
		rOpts = append(rOpts, graft.WithRegistry(opts.Registry))
	}
	var lOpts []tree.Option
	if opts.Strict {
		lOpts = append(lOpts, tree.Strict())
	}
	return &env{
		backend:  backend,
		root:     backend.NewRoot("body"),
		renderer: graft.New(backend, rOpts...),
		loader:   tree.NewLoader(lOpts...),
		logger:   logger,
	}
}

// renderFile loads path and commits it into the container.
func (e *env) renderFile(ctx context.Context, path string) error {
	t, err := e.loader.LoadFile(path)
	if err != nil {
		return err
	}
	if err := e.renderer.Render(ctx, t, e.root, nil); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	e.prev, e.last = e.last, &t
	e.logger.Debug("Tree committed", "file", path)
	return nil
}

func (e *env) snapshot(ctx context.Context) (*domain.Snapshot, error) {
	s, ok := e.renderer.Sessions().Lookup(e.root)
	if !ok {
		return nil, errors.New("nothing rendered")
	}
	return e.renderer.Store().Load(ctx, s.ID)
}

// write prints the committed state in format.
func (e *env) write(ctx context.Context, w io.Writer, format string, color bool) error {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "", FormatOutline:
		out := snap.Outline
		if color {
			out = tui.Colorize(out, termenv.ColorProfile())
		}
		_, err = io.WriteString(w, out)
	case FormatHTML:
		_, err = fmt.Fprintln(w, e.root.HTML())
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(snap)
	case FormatMarkdown:
		md := tui.Markdown(snap)
		if color {
			if md, err = tui.NewRenderer()(md); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, md)
	case FormatMermaid:
		var overlay *graph.GraphOverlay
		if e.prev != nil {
			overlay = &graph.GraphOverlay{Changed: graph.ChangedPaths(*e.prev, *e.last)}
		}
		_, err = io.WriteString(w, graph.GenerateMermaid(*e.last, overlay))
	default:
		return fmt.Errorf("unknown format %q (want one of %v)", format, Formats)
	}
	return err
}

// Render commits every file in order into one container and writes the final state to w.
func Render(ctx context.Context, opts RenderOptions, w io.Writer) error {
	if len(opts.Files) == 0 {
		return errors.New("no tree files given")
	}
	if err := checkFormat(opts.Format); err != nil {
		return err
	}

	e := newEnv(opts, createLogger(opts.Debug))
	for _, f := range opts.Files {
		if err := e.renderFile(ctx, f); err != nil {
			return err
		}
	}
	return e.write(ctx, w, opts.Format, opts.Color)
}

func checkFormat(format string) error {
	if format == "" {
		return nil
	}
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %v)", format, Formats)
}
