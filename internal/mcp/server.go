package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"atelier/internal/app"
)

// Server is the MCP server for the design engine. It exposes tools so AI
// agents can manage projects, edit the canvas, drive pointer gestures, and
// walk the undo history.
type Server struct {
	mcp *server.MCPServer
	app *app.App
}

// Deps holds the dependencies passed from the App layer to the MCP server.
type Deps struct {
	App *app.App
}

// New creates and configures a new MCP server with all tools registered.
func New(deps Deps) *Server {
	s := &Server{app: deps.App}

	s.mcp = server.NewMCPServer(
		"atelier-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerProjectTools()
	s.registerPageTools()
	s.registerElementTools()
	s.registerHistoryTools()
	s.registerGestureTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

// splitIDs parses a comma-separated id list tool argument.
func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
