package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/geometry"
	"github.com/a3tai/mcp-envelope-editor/internal/interaction"
	"github.com/a3tai/mcp-envelope-editor/internal/payload"
)

var (
	errNoRecipient = errors.New("add a recipient before placing fields")
	errNoDocument  = errors.New("no document loaded")
)

func (s *Server) handleAddDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, loaded, err := s.workspace.AddDocument(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Added document %s\n", doc.Name)
	text += fmt.Sprintf("ID: %s\n", doc.ID)
	text += fmt.Sprintf("Pages: %d\n", doc.PageCount)
	text += fmt.Sprintf("Size: %d bytes\n", loaded.Size)
	for i, page := range loaded.Pages {
		text += fmt.Sprintf("  Page %d: %g x %g %s\n", i+1, page.Width, page.Height, page.Unit)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleRemoveDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var removed int
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		if _, ok := store.Document(id); !ok {
			return fmt.Errorf("document not found: %s", id)
		}
		removed = len(store.FieldsByDocument(id))
		store.RemoveDocument(id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed document %s and %d field(s)", id, removed)), nil
}

func (s *Server) handleSetActiveDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var doc envelope.Document
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		var ok bool
		if doc, ok = store.Document(id); !ok {
			return fmt.Errorf("document not found: %s", id)
		}
		store.SetActiveDocument(id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Active document: %s (%s)", doc.Name, doc.ID)), nil
}

func (s *Server) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loader := s.workspace.Loader()
	files, err := loader.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", loader.Directory())), nil
	}

	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", len(files), loader.Directory())
	for i, f := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, f.Name)
		text += fmt.Sprintf("   Path: %s\n", f.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", f.Size)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleAddRecipient(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	update := recipientUpdate(args)
	if update.Type != nil && !envelope.ValidRecipientType(*update.Type) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid recipient type: %s", *update.Type)), nil
	}

	var r envelope.Recipient
	_ = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		r = store.AddRecipient()
		store.UpdateRecipient(r.ID, update)
		r, _ = store.Recipient(r.ID)
		return nil
	})
	return mcp.NewToolResultText("Added recipient\n" + formatRecipient(r)), nil
}

func (s *Server) handleUpdateRecipient(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	update := recipientUpdate(request.GetArguments())
	if update.Type != nil && !envelope.ValidRecipientType(*update.Type) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid recipient type: %s", *update.Type)), nil
	}

	var r envelope.Recipient
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		if _, ok := store.Recipient(id); !ok {
			return fmt.Errorf("recipient not found: %s", id)
		}
		store.UpdateRecipient(id, update)
		r, _ = store.Recipient(id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Updated recipient\n" + formatRecipient(r)), nil
}

func recipientUpdate(args map[string]any) envelope.RecipientUpdate {
	u := envelope.RecipientUpdate{
		Name:         optionalString(args, "name"),
		Email:        optionalString(args, "email"),
		RoutingOrder: optionalInt(args, "routingOrder"),
	}
	if t := optionalString(args, "type"); t != nil {
		rt := envelope.RecipientType(*t)
		u.Type = &rt
	}
	return u
}

func (s *Server) handleRemoveRecipient(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var removed int
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		if _, ok := store.Recipient(id); !ok {
			return fmt.Errorf("recipient not found: %s", id)
		}
		for _, f := range store.Fields() {
			if f.RecipientID == id {
				removed++
			}
		}
		store.RemoveRecipient(id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed recipient %s and %d field(s)", id, removed)), nil
}

func (s *Server) handleSetActiveRecipient(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var r envelope.Recipient
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		var ok bool
		if r, ok = store.Recipient(id); !ok {
			return fmt.Errorf("recipient not found: %s", id)
		}
		store.SetActiveRecipient(id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Active recipient: %s (%s)", displayName(r), r.ID)), nil
}

func (s *Server) handleAddField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldType, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := request.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := request.RequireFloat("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := request.RequireFloat("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	documentID := request.GetString("documentId", "")

	if _, ok := envelope.LookupFieldType(envelope.FieldType(fieldType)); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown field type: %s", fieldType)), nil
	}

	var f envelope.Field
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		if _, ok := store.ActiveRecipient(); !ok {
			return errNoRecipient
		}
		if documentID == "" {
			active, ok := store.ActiveDocument()
			if !ok {
				return errNoDocument
			}
			documentID = active.ID
		}
		doc, ok := store.Document(documentID)
		if !ok {
			return fmt.Errorf("document not found: %s", documentID)
		}
		if page < 1 || page > doc.PageCount {
			return fmt.Errorf("page %d out of range (document has %d pages)", page, doc.PageCount)
		}
		f, _ = store.AddField(envelope.FieldType(fieldType), documentID, page, x, y)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Added field\n" + formatField(f)), nil
}

func (s *Server) handleUpdateField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	update := fieldUpdate(request.GetArguments())
	if update.ScaleValue != nil {
		clamped := geometry.ClampScale(*update.ScaleValue)
		update.ScaleValue = &clamped
	}

	var f envelope.Field
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		if _, ok := store.Field(id); !ok {
			return fmt.Errorf("field not found: %s", id)
		}
		store.UpdateField(id, update)
		f, _ = store.Field(id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Updated field\n" + formatField(f)), nil
}

func (s *Server) handleRemoveField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		if _, ok := store.Field(id); !ok {
			return fmt.Errorf("field not found: %s", id)
		}
		store.RemoveField(id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed field %s", id)), nil
}

func (s *Server) handleDuplicateField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var f envelope.Field
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		var ok bool
		if f, ok = store.DuplicateField(id); !ok {
			return fmt.Errorf("field not found: %s", id)
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Duplicated field\n" + formatField(f)), nil
}

func (s *Server) handleGesture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldID := request.GetString("fieldId", "")
	pointer := geometry.Point{X: request.GetFloat("x", 0), Y: request.GetFloat("y", 0)}
	zoom := request.GetFloat("zoom", s.workspace.Zoom())

	var text string
	err = s.workspace.Do(func(store *envelope.Store, ctl *interaction.Controller) error {
		switch action {
		case "begin_drag":
			if err := ctl.BeginDrag(fieldID, pointer); err != nil {
				return err
			}
		case "begin_resize":
			corner, err := interaction.ParseCorner(request.GetString("corner", ""))
			if err != nil {
				return err
			}
			if err := ctl.BeginResize(fieldID, corner, pointer); err != nil {
				return err
			}
		case "begin_item_drag":
			index, err := request.RequireInt("index")
			if err != nil {
				return err
			}
			if err := ctl.BeginItemDrag(fieldID, index, pointer); err != nil {
				return err
			}
		case "move":
			session, ok := ctl.Session()
			if !ok {
				text = "No gesture in progress; move ignored"
				return nil
			}
			if !ctl.Move(pointer, zoom) {
				text = "Field no longer exists; move ignored"
				return nil
			}
			f, _ := store.Field(session.FieldID)
			text = fmt.Sprintf("Gesture %s moved to (%g, %g)\n%s", session.Kind, pointer.X, pointer.Y, formatField(f))
			return nil
		case "end":
			session, ok := ctl.End()
			if !ok {
				text = "No gesture in progress"
				return nil
			}
			text = fmt.Sprintf("Gesture %s ended", session.Kind)
			if f, ok := store.Field(session.FieldID); ok {
				text += "\n" + formatField(f)
			}
			return nil
		default:
			return fmt.Errorf("unknown gesture action: %s", action)
		}

		session, _ := ctl.Session()
		text = fmt.Sprintf("Gesture %s started on field %s at (%g, %g)", session.Kind, session.FieldID, pointer.X, pointer.Y)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleGroupItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldID, err := request.RequireString("fieldId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index := request.GetInt("index", -1)

	var f envelope.Field
	err = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		var err error
		switch action {
		case "add":
			_, err = interaction.AddGroupItem(store, fieldID)
		case "select":
			err = interaction.SetItemSelected(store, fieldID, index, request.GetBool("selected", true))
		case "rename":
			value, verr := request.RequireString("value")
			if verr != nil {
				return verr
			}
			err = interaction.SetItemValue(store, fieldID, index, value)
		case "remove":
			err = interaction.RemoveGroupItem(store, fieldID, index)
		default:
			return fmt.Errorf("unknown group item action: %s", action)
		}
		if err != nil {
			return err
		}
		f, _ = store.Field(fieldID)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatField(f)), nil
}

func (s *Server) handleSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	update := settingsUpdate(args)
	if update.Status != nil && *update.Status != envelope.StatusCreated && *update.Status != envelope.StatusSent {
		return mcp.NewToolResultError(fmt.Sprintf("invalid status: %s", *update.Status)), nil
	}
	if zoom := optionalFloat(args, "zoom"); zoom != nil {
		if *zoom <= 0 {
			return mcp.NewToolResultError("zoom must be positive"), nil
		}
		s.workspace.SetZoom(*zoom)
	}

	var settings envelope.Settings
	_ = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		store.SetSettings(update)
		settings = store.Settings()
		return nil
	})
	return mcp.NewToolResultText(formatSettings(settings, s.workspace.Zoom())), nil
}

func (s *Server) handlePageViewport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID := request.GetString("documentId", "")
	page := request.GetInt("page", 1)
	scale := request.GetFloat("scale", s.workspace.Zoom())

	if documentID == "" {
		_ = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
			if doc, ok := store.ActiveDocument(); ok {
				documentID = doc.ID
			}
			return nil
		})
		if documentID == "" {
			return mcp.NewToolResultError(errNoDocument.Error()), nil
		}
	}

	vp, err := s.workspace.Viewport(ctx, documentID, page, scale)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := fmt.Sprintf("Document %s, page %d\n", documentID, vp.Page)
	text += fmt.Sprintf("Scale: %g\n", vp.Scale)
	text += fmt.Sprintf("Viewport: %d x %d pixels\n", vp.Width, vp.Height)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	env := s.workspace.Export()
	data, err := payload.Marshal(env)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode envelope: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.workspace.Reset()
	return mcp.NewToolResultText("Envelope reset"), nil
}

func (s *Server) handleInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var snap envelope.Snapshot
	var stored int64
	_ = s.workspace.Do(func(store *envelope.Store, _ *interaction.Controller) error {
		snap = store.Snapshot()
		stored = store.Binaries().Size()
		return nil
	})
	counts := payload.Count(payload.Generate(snap))
	return mcp.NewToolResultText(s.formatInfo(snap, counts, stored)), nil
}
