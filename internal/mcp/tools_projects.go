package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerProjectTools() {
	// ── list_projects ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all design projects in the workspace"),
	), s.handleListProjects)

	// ── create_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Create a new design project"),
		mcp.WithString("name",
			mcp.Description("Name of the new project"),
			mcp.Required(),
		),
	), s.handleCreateProject)

	// ── open_project ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_project",
		mcp.WithDescription("Open a project. Its event log is replayed from disk and subsequent tools act on it."),
		mcp.WithString("projectId",
			mcp.Description("ID of the project to open"),
			mcp.Required(),
		),
	), s.handleOpenProject)

	// ── close_project ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("close_project",
		mcp.WithDescription("Close the open project"),
	), s.handleCloseProject)

	// ── rename_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_project",
		mcp.WithDescription("Rename a project"),
		mcp.WithString("projectId",
			mcp.Description("ID of the project"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New project name"),
			mcp.Required(),
		),
	), s.handleRenameProject)

	// ── delete_project ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_project",
		mcp.WithDescription("Delete a project and its entire event log. This cannot be undone."),
		mcp.WithString("projectId",
			mcp.Description("ID of the project"),
			mcp.Required(),
		),
	), s.handleDeleteProject)
}

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.app.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return jsonResult(projects)
}

func (s *Server) handleCreateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	project, err := s.app.CreateProject(name)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return jsonResult(project)
}

func (s *Server) handleOpenProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	if projectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}
	project, err := s.app.OpenProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	return jsonResult(project)
}

func (s *Server) handleCloseProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.app.CloseProject()
	return textResult("Project closed"), nil
}

func (s *Server) handleRenameProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	name := req.GetString("name", "")
	if projectID == "" || name == "" {
		return nil, fmt.Errorf("projectId and name are required")
	}
	if err := s.app.RenameProject(projectID, name); err != nil {
		return nil, fmt.Errorf("rename project: %w", err)
	}
	return textResult(fmt.Sprintf("Project %s renamed to %q", projectID, name)), nil
}

func (s *Server) handleDeleteProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("projectId", "")
	if projectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}
	if err := s.app.DeleteProject(projectID); err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	return textResult(fmt.Sprintf("Project %s deleted", projectID)), nil
}
