package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	// ── undo ───────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Step the open project's history cursor back one event"),
	), s.handleUndo)

	// ── redo ───────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Step the open project's history cursor forward one event"),
	), s.handleRedo)

	// ── history_info ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("history_info",
		mcp.WithDescription("Get the open project's event count, cursor position, and undo/redo availability"),
	), s.handleHistoryInfo)

	// ── get_state ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the open project's full derived state: pages, elements, current page, selection"),
	), s.handleGetState)

	// ── snapshot_project ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("snapshot_project",
		mcp.WithDescription("Persist a snapshot of the open project's derived state"),
	), s.handleSnapshotProject)

	// ── export_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_project",
		mcp.WithDescription("Export the open project's ordered event log to a JSON file"),
		mcp.WithString("path", mcp.Description("Target file path (optional, defaults to the data directory)")),
	), s.handleExportProject)

	// ── import_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("import_project",
		mcp.WithDescription("Replace the open project's history with an event log read from a JSON file"),
		mcp.WithString("path", mcp.Description("Source file path"), mcp.Required()),
	), s.handleImportProject)

	// ── link_export_file ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("link_export_file",
		mcp.WithDescription("Link the open project to an export file. External writes to the file re-import the project."),
		mcp.WithString("path", mcp.Description("File path to watch"), mcp.Required()),
	), s.handleLinkExportFile)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.app.Undo() {
		return textResult("Nothing to undo"), nil
	}
	return textResult("Undone"), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.app.Redo() {
		return textResult("Nothing to redo"), nil
	}
	return textResult("Redone"), nil
}

func (s *Server) handleHistoryInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.app.History()
	if err != nil {
		return nil, err
	}
	return jsonResult(info)
}

func (s *Server) handleGetState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.app.State()
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"state":     state,
		"selection": state.SelectedIDs(),
	})
}

func (s *Server) handleSnapshotProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.app.Snapshot(); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return textResult("Snapshot saved"), nil
}

func (s *Server) handleExportProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.app.ExportProject(req.GetString("path", ""))
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return textResult(fmt.Sprintf("Exported to %s", path)), nil
}

func (s *Server) handleImportProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := s.app.ImportProject(path); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return textResult(fmt.Sprintf("Imported %s", path)), nil
}

func (s *Server) handleLinkExportFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := s.app.LinkExportFile(path); err != nil {
		return nil, fmt.Errorf("link export file: %w", err)
	}
	return textResult(fmt.Sprintf("Watching %s", path)), nil
}
