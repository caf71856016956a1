package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"atelier/internal/domain"
)

func (s *Server) registerElementTools() {
	// ── list_elements ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List a page's elements in z-order. Defaults to the current page."),
		mcp.WithString("pageId", mcp.Description("ID of the page (optional)")),
	), s.handleListElements)

	// ── get_element ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_element",
		mcp.WithDescription("Get a single element"),
		mcp.WithString("elementId", mcp.Description("ID of the element"), mcp.Required()),
	), s.handleGetElement)

	// ── add_element ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_element",
		mcp.WithDescription("Add an element to a page or inside a container. Exactly one of pageId or parentId must be set."),
		mcp.WithString("type",
			mcp.Description("Element type: box, container, heading, paragraph, text, image, link, button, input"),
			mcp.Required(),
		),
		mcp.WithString("pageId", mcp.Description("Page to place the element on")),
		mcp.WithString("parentId", mcp.Description("Container element to nest inside")),
		mcp.WithNumber("x", mcp.Description("X position (default 0)")),
		mcp.WithNumber("y", mcp.Description("Y position (default 0)")),
		mcp.WithNumber("width", mcp.Description("Width (default 100)")),
		mcp.WithNumber("height", mcp.Description("Height (default 100)")),
		mcp.WithString("content", mcp.Description("Text content (optional)")),
	), s.handleAddElement)

	// ── move_element ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_element",
		mcp.WithDescription("Move an element to an absolute position"),
		mcp.WithString("elementId", mcp.Description("ID of the element"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveElement)

	// ── resize_element ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_element",
		mcp.WithDescription("Set an element's full rect"),
		mcp.WithString("elementId", mcp.Description("ID of the element"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeElement)

	// ── update_element ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_element",
		mcp.WithDescription("Patch an element's content, rotation, opacity, or snap override. Omitted fields are left untouched."),
		mcp.WithString("elementId", mcp.Description("ID of the element"), mcp.Required()),
		mcp.WithString("content", mcp.Description("New text content")),
		mcp.WithNumber("rotation", mcp.Description("Rotation in degrees")),
		mcp.WithNumber("opacity", mcp.Description("Opacity 0..1")),
		mcp.WithString("snap",
			mcp.Description("Baseline-snap override: inherit, on, or off"),
		),
	), s.handleUpdateElement)

	// ── move_elements ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_elements",
		mcp.WithDescription("Shift several elements by one shared delta as a single undoable step"),
		mcp.WithString("elementIds", mcp.Description("Comma-separated element ids"), mcp.Required()),
		mcp.WithNumber("dx", mcp.Description("Horizontal offset"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical offset"), mcp.Required()),
	), s.handleMoveElements)

	// ── delete_elements ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_elements",
		mcp.WithDescription("Delete elements and their descendants as a single undoable step"),
		mcp.WithString("elementIds", mcp.Description("Comma-separated element ids"), mcp.Required()),
	), s.handleDeleteElements)

	// ── select_elements ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_elements",
		mcp.WithDescription("Replace the selection set. An empty list clears the selection."),
		mcp.WithString("elementIds", mcp.Description("Comma-separated element ids, empty to clear")),
	), s.handleSelectElements)

	// ── get_selection ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_selection",
		mcp.WithDescription("Get the selected element ids"),
	), s.handleGetSelection)
}

func (s *Server) handleListElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elements, err := s.app.ListElements(req.GetString("pageId", ""))
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	return jsonResult(elements)
}

func (s *Server) handleGetElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elementID := req.GetString("elementId", "")
	if elementID == "" {
		return nil, fmt.Errorf("elementId is required")
	}
	el, err := s.app.GetElement(elementID)
	if err != nil {
		return nil, err
	}
	return jsonResult(el)
}

func (s *Server) handleAddElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elType := req.GetString("type", "")
	if elType == "" {
		return nil, fmt.Errorf("type is required")
	}
	args := req.GetArguments()
	el := domain.Element{
		Type:     domain.ElementType(elType),
		PageID:   req.GetString("pageId", ""),
		ParentID: req.GetString("parentId", ""),
		Rect: domain.Rect{
			X:      getFloat(args, "x", 0),
			Y:      getFloat(args, "y", 0),
			Width:  getFloat(args, "width", 100),
			Height: getFloat(args, "height", 100),
		},
		Content: req.GetString("content", ""),
	}
	id, err := s.app.AddElement(el)
	if err != nil {
		return nil, fmt.Errorf("add element: %w", err)
	}
	added, err := s.app.GetElement(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(added)
}

func (s *Server) handleMoveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elementID := req.GetString("elementId", "")
	if elementID == "" {
		return nil, fmt.Errorf("elementId is required")
	}
	args := req.GetArguments()
	if err := s.app.MoveElement(elementID, getFloat(args, "x", 0), getFloat(args, "y", 0)); err != nil {
		return nil, fmt.Errorf("move element: %w", err)
	}
	return textResult(fmt.Sprintf("Element %s moved", elementID)), nil
}

func (s *Server) handleResizeElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elementID := req.GetString("elementId", "")
	if elementID == "" {
		return nil, fmt.Errorf("elementId is required")
	}
	args := req.GetArguments()
	rect := domain.Rect{
		X:      getFloat(args, "x", 0),
		Y:      getFloat(args, "y", 0),
		Width:  getFloat(args, "width", 0),
		Height: getFloat(args, "height", 0),
	}
	if err := s.app.ResizeElement(elementID, rect); err != nil {
		return nil, fmt.Errorf("resize element: %w", err)
	}
	return textResult(fmt.Sprintf("Element %s resized", elementID)), nil
}

func (s *Server) handleUpdateElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elementID := req.GetString("elementId", "")
	if elementID == "" {
		return nil, fmt.Errorf("elementId is required")
	}
	args := req.GetArguments()
	patch := domain.ElementUpdated{ID: elementID}
	if v, ok := args["content"].(string); ok {
		patch.Content = &v
	}
	if v, ok := args["rotation"].(float64); ok {
		patch.Rotation = &v
	}
	if v, ok := args["opacity"].(float64); ok {
		patch.Opacity = &v
	}
	if v, ok := args["snap"].(string); ok {
		mode := domain.SnapMode(v)
		patch.Snap = &mode
	}
	if err := s.app.UpdateElement(patch); err != nil {
		return nil, fmt.Errorf("update element: %w", err)
	}
	updated, err := s.app.GetElement(elementID)
	if err != nil {
		return nil, err
	}
	return jsonResult(updated)
}

func (s *Server) handleMoveElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("elementIds", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("elementIds is required")
	}
	args := req.GetArguments()
	if err := s.app.MoveElements(ids, getFloat(args, "dx", 0), getFloat(args, "dy", 0)); err != nil {
		return nil, fmt.Errorf("move elements: %w", err)
	}
	return textResult(fmt.Sprintf("Moved %d elements", len(ids))), nil
}

func (s *Server) handleDeleteElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("elementIds", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("elementIds is required")
	}
	if err := s.app.DeleteElements(ids...); err != nil {
		return nil, fmt.Errorf("delete elements: %w", err)
	}
	return textResult(fmt.Sprintf("Deleted %d elements", len(ids))), nil
}

func (s *Server) handleSelectElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("elementIds", ""))
	if err := s.app.SetSelection(ids); err != nil {
		return nil, fmt.Errorf("select elements: %w", err)
	}
	if len(ids) == 0 {
		return textResult("Selection cleared"), nil
	}
	return textResult(fmt.Sprintf("Selected %d elements", len(ids))), nil
}

func (s *Server) handleGetSelection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.app.Selection()
	if err != nil {
		return nil, fmt.Errorf("get selection: %w", err)
	}
	return jsonResult(ids)
}
