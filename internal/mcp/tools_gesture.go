package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"atelier/internal/domain"
)

func (s *Server) registerGestureTools() {
	// ── begin_drag ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("begin_drag",
		mcp.WithDescription("Start dragging an element. If it is part of the selection the whole selection drags together. Coordinates are screen pixels."),
		mcp.WithString("elementId", mcp.Description("ID of the element under the pointer"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Pointer X in screen pixels"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Pointer Y in screen pixels"), mcp.Required()),
	), s.handleBeginDrag)

	// ── begin_resize ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("begin_resize",
		mcp.WithDescription("Start resizing an element from a handle. Handles: n, s, e, w, ne, nw, se, sw."),
		mcp.WithString("elementId", mcp.Description("ID of the element"), mcp.Required()),
		mcp.WithString("handle", mcp.Description("Resize handle"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Pointer X in screen pixels"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Pointer Y in screen pixels"), mcp.Required()),
	), s.handleBeginResize)

	// ── begin_marquee ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("begin_marquee",
		mcp.WithDescription("Start a marquee selection on the current page"),
		mcp.WithNumber("x", mcp.Description("Pointer X in screen pixels"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Pointer Y in screen pixels"), mcp.Required()),
	), s.handleBeginMarquee)

	// ── update_pointer ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_pointer",
		mcp.WithDescription("Move the pointer during an active gesture. Pending geometry updates but nothing is committed to history."),
		mcp.WithNumber("x", mcp.Description("Pointer X in screen pixels"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Pointer Y in screen pixels"), mcp.Required()),
	), s.handleUpdatePointer)

	// ── end_pointer ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("end_pointer",
		mcp.WithDescription("Release the pointer, committing the gesture as at most one history event. Movement below the drag threshold commits nothing."),
	), s.handleEndPointer)

	// ── cancel_pointer ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("cancel_pointer",
		mcp.WithDescription("Abort the active gesture without committing anything"),
	), s.handleCancelPointer)

	// ── get_interaction ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_interaction",
		mcp.WithDescription("Get the active gesture's mode, pending rects, and marquee"),
	), s.handleGetInteraction)
}

func pointArg(req mcp.CallToolRequest) domain.Point {
	args := req.GetArguments()
	return domain.Point{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)}
}

func (s *Server) handleBeginDrag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elementID := req.GetString("elementId", "")
	if elementID == "" {
		return nil, fmt.Errorf("elementId is required")
	}
	if err := s.app.BeginDrag(elementID, pointArg(req)); err != nil {
		return nil, fmt.Errorf("begin drag: %w", err)
	}
	return textResult(fmt.Sprintf("Dragging %s", elementID)), nil
}

func (s *Server) handleBeginResize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elementID := req.GetString("elementId", "")
	handle := domain.Handle(req.GetString("handle", ""))
	if elementID == "" || handle == "" {
		return nil, fmt.Errorf("elementId and handle are required")
	}
	if err := s.app.BeginResize(elementID, handle, pointArg(req)); err != nil {
		return nil, fmt.Errorf("begin resize: %w", err)
	}
	return textResult(fmt.Sprintf("Resizing %s from %s", elementID, handle)), nil
}

func (s *Server) handleBeginMarquee(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.app.BeginMarquee(pointArg(req)); err != nil {
		return nil, fmt.Errorf("begin marquee: %w", err)
	}
	return textResult("Marquee started"), nil
}

func (s *Server) handleUpdatePointer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.app.UpdatePointer(pointArg(req)); err != nil {
		return nil, fmt.Errorf("update pointer: %w", err)
	}
	snap, err := s.app.Interaction()
	if err != nil {
		return nil, err
	}
	return jsonResult(snap)
}

func (s *Server) handleEndPointer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.app.EndPointer(); err != nil {
		return nil, fmt.Errorf("end pointer: %w", err)
	}
	return textResult("Gesture committed"), nil
}

func (s *Server) handleCancelPointer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.app.CancelPointer(); err != nil {
		return nil, fmt.Errorf("cancel pointer: %w", err)
	}
	return textResult("Gesture cancelled"), nil
}

func (s *Server) handleGetInteraction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.app.Interaction()
	if err != nil {
		return nil, err
	}
	return jsonResult(snap)
}
