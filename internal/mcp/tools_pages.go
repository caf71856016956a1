package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"atelier/internal/domain"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the open project's pages in creation order"),
	), s.handleListPages)

	// ── add_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Add a page to the open project. The first page becomes the current page."),
		mcp.WithString("name", mcp.Description("Page name"), mcp.Required()),
		mcp.WithString("slug", mcp.Description("URL slug (optional)")),
		mcp.WithNumber("x", mcp.Description("Canvas X position (default 0)")),
		mcp.WithNumber("y", mcp.Description("Canvas Y position (default 0)")),
		mcp.WithNumber("width", mcp.Description("Page width (default 1280)")),
		mcp.WithNumber("height", mcp.Description("Page height (default 800)")),
	), s.handleAddPage)

	// ── update_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_page",
		mcp.WithDescription("Patch page metadata. Omitted fields are left untouched."),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("slug", mcp.Description("New slug")),
		mcp.WithString("background", mcp.Description("New background color")),
		mcp.WithBoolean("showGrid", mcp.Description("Toggle the layout grid overlay")),
		mcp.WithBoolean("showBaseline", mcp.Description("Toggle the baseline grid overlay")),
		mcp.WithBoolean("publish", mcp.Description("Toggle the publish flag")),
	), s.handleUpdatePage)

	// ── move_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_page",
		mcp.WithDescription("Move a page on the infinite canvas"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMovePage)

	// ── resize_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_page",
		mcp.WithDescription("Resize a page"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizePage)

	// ── delete_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a page and every element on it as one undoable step"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
	), s.handleDeletePage)

	// ── activate_page ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("activate_page",
		mcp.WithDescription("Switch the current page"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
	), s.handleActivatePage)

	// ── set_viewport ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_viewport",
		mcp.WithDescription("Set a page's pan and zoom. The zoom is used to convert pointer gesture screen deltas to model deltas."),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Viewport X offset"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Viewport Y offset"), mcp.Required()),
		mcp.WithNumber("zoom", mcp.Description("Zoom factor, 1 = 100%"), mcp.Required()),
	), s.handleSetViewport)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.app.ListPages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return jsonResult(pages)
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	args := req.GetArguments()
	page := domain.Page{
		Name:   name,
		Slug:   req.GetString("slug", ""),
		X:      getFloat(args, "x", 0),
		Y:      getFloat(args, "y", 0),
		Width:  getFloat(args, "width", 1280),
		Height: getFloat(args, "height", 800),
	}
	id, err := s.app.AddPage(page)
	if err != nil {
		return nil, fmt.Errorf("add page: %w", err)
	}
	added, err := s.app.GetPage(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(added)
}

func (s *Server) handleUpdatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	args := req.GetArguments()
	patch := domain.PageUpdated{ID: pageID}
	if v, ok := args["name"].(string); ok {
		patch.Name = &v
	}
	if v, ok := args["slug"].(string); ok {
		patch.Slug = &v
	}
	if v, ok := args["background"].(string); ok {
		patch.Background = &v
	}
	if v, ok := args["showGrid"].(bool); ok {
		patch.ShowGrid = &v
	}
	if v, ok := args["showBaseline"].(bool); ok {
		patch.ShowBaseline = &v
	}
	if v, ok := args["publish"].(bool); ok {
		patch.Publish = &v
	}
	if err := s.app.UpdatePage(patch); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	updated, err := s.app.GetPage(pageID)
	if err != nil {
		return nil, err
	}
	return jsonResult(updated)
}

func (s *Server) handleMovePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	args := req.GetArguments()
	if err := s.app.MovePage(pageID, getFloat(args, "x", 0), getFloat(args, "y", 0)); err != nil {
		return nil, fmt.Errorf("move page: %w", err)
	}
	return textResult(fmt.Sprintf("Page %s moved", pageID)), nil
}

func (s *Server) handleResizePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	args := req.GetArguments()
	if err := s.app.ResizePage(pageID, getFloat(args, "width", 0), getFloat(args, "height", 0)); err != nil {
		return nil, fmt.Errorf("resize page: %w", err)
	}
	return textResult(fmt.Sprintf("Page %s resized", pageID)), nil
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	if err := s.app.DeletePage(pageID); err != nil {
		return nil, fmt.Errorf("delete page: %w", err)
	}
	return textResult(fmt.Sprintf("Page %s deleted", pageID)), nil
}

func (s *Server) handleActivatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	if err := s.app.ActivatePage(pageID); err != nil {
		return nil, fmt.Errorf("activate page: %w", err)
	}
	return textResult(fmt.Sprintf("Current page is now %s", pageID)), nil
}

func (s *Server) handleSetViewport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	args := req.GetArguments()
	vp := domain.Viewport{
		X:    getFloat(args, "x", 0),
		Y:    getFloat(args, "y", 0),
		Zoom: getFloat(args, "zoom", 1),
	}
	if err := s.app.SetViewport(pageID, vp); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	return textResult(fmt.Sprintf("Viewport of %s set to (%.1f, %.1f) @ %.2fx", pageID, vp.X, vp.Y, vp.Zoom)), nil
}
