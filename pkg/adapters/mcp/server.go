// Package mcp exposes a ports.Workspace as Model Context Protocol tools, so an
// agent can mount trees and read back what the host adapter committed.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/tree"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ContainersURI is the resource listing the open containers.
const ContainersURI = "graft://containers"

// Server wraps a Workspace and exposes it as an MCP Server.
type Server struct {
	workspace ports.Workspace
	loader    *tree.Loader
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLoader sets the loader used to decode tree arguments.
func WithLoader(l *tree.Loader) Option {
	return func(s *Server) {
		s.loader = l
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(ws ports.Workspace, opts ...Option) *Server {
	s := &Server{
		workspace: ws,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("graft-mcp", strings.TrimSpace(graft.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = tree.NewLoader()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: render_tree
	s.mcpServer.AddTool(mcp.NewTool("render_tree",
		mcp.WithDescription("Commit an abstract tree into a container. Opens a new container when container_id is omitted."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("JSON tree document: {type, props, children} or a string for text")),
		mcp.WithString("container_id", mcp.Description("Target container (optional)")),
	), s.handleRenderTree)

	// TOOL: inspect_container
	s.mcpServer.AddTool(mcp.NewTool("inspect_container",
		mcp.WithDescription("Return the last committed snapshot of a container."),
		mcp.WithString("container_id", mcp.Required(), mcp.Description("Container ID")),
	), s.handleInspect)

	// TOOL: close_container
	s.mcpServer.AddTool(mcp.NewTool("close_container",
		mcp.WithDescription("Unmount a container and discard its snapshot."),
		mcp.WithString("container_id", mcp.Required(), mcp.Description("Container ID")),
	), s.handleClose)

	// TOOL: list_containers
	s.mcpServer.AddTool(mcp.NewTool("list_containers",
		mcp.WithDescription("List the open containers."),
	), s.handleList)
}

func (s *Server) handleRenderTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tree json: %v", err)), nil
	}
	t, err := s.loader.Decode(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tree: %v", err)), nil
	}

	id := request.GetString("container_id", "")
	if id == "" {
		if id, err = s.workspace.Open(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("open failed: %v", err)), nil
		}
	}

	snap, err := s.workspace.Render(ctx, id, t)
	if err != nil {
		s.logger.Warn("MCP render_tree: Render failed", "container_id", id, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return jsonResult(snap)
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("container_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.workspace.Snapshot(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	return jsonResult(snap)
}

func (s *Server) handleClose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("container_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.workspace.Close(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("close failed: %v", err)), nil
	}
	return mcp.NewToolResultText("closed " + id), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.workspace.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return jsonResult(map[string][]string{"containers": ids})
}

func (s *Server) registerResources() {
	// EXPOSE: graft://containers
	s.mcpServer.AddResource(mcp.NewResource(ContainersURI, "Open Containers",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.workspace.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list containers: %w", err)
		}
		jsonBytes, _ := json.Marshal(map[string][]string{"containers": ids})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ContainersURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
