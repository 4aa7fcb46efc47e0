package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-envelope-editor/internal/descriptions"
	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
)

// newTool creates a tool whose description comes from the descriptions table
func newTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription(name)),
	}, opts...)...)
}

func fieldTypeNames() []string {
	names := make([]string, 0, len(envelope.FieldTypes))
	for _, def := range envelope.FieldTypes {
		names = append(names, string(def.Type))
	}
	return names
}

func recipientTypeNames() []string {
	names := make([]string, 0, len(envelope.RecipientTypes))
	for _, opt := range envelope.RecipientTypes {
		names = append(names, string(opt.Value))
	}
	return names
}

// tools returns every tool the server exposes with its handler
func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		// Documents
		{
			Tool: newTool("envelope_add_document",
				mcp.WithString("path", mcp.Required(),
					mcp.Description("Path of the PDF, relative to the document directory")),
			),
			Handler: s.handleAddDocument,
		},
		{
			Tool: newTool("envelope_remove_document",
				mcp.WithString("id", mcp.Required(), mcp.Description("Document id")),
			),
			Handler: s.handleRemoveDocument,
		},
		{
			Tool: newTool("envelope_set_active_document",
				mcp.WithString("id", mcp.Required(), mcp.Description("Document id")),
			),
			Handler: s.handleSetActiveDocument,
		},
		{
			Tool:    newTool("envelope_list_files"),
			Handler: s.handleListFiles,
		},

		// Recipients
		{
			Tool: newTool("envelope_add_recipient",
				mcp.WithString("name", mcp.Description("Recipient name")),
				mcp.WithString("email", mcp.Description("Recipient email")),
				mcp.WithString("type", mcp.Description("Recipient role"), mcp.Enum(recipientTypeNames()...)),
			),
			Handler: s.handleAddRecipient,
		},
		{
			Tool: newTool("envelope_update_recipient",
				mcp.WithString("id", mcp.Required(), mcp.Description("Recipient id")),
				mcp.WithString("name", mcp.Description("Recipient name")),
				mcp.WithString("email", mcp.Description("Recipient email")),
				mcp.WithString("type", mcp.Description("Recipient role"), mcp.Enum(recipientTypeNames()...)),
				mcp.WithNumber("routingOrder", mcp.Description("Routing order")),
			),
			Handler: s.handleUpdateRecipient,
		},
		{
			Tool: newTool("envelope_remove_recipient",
				mcp.WithString("id", mcp.Required(), mcp.Description("Recipient id")),
			),
			Handler: s.handleRemoveRecipient,
		},
		{
			Tool: newTool("envelope_set_active_recipient",
				mcp.WithString("id", mcp.Required(), mcp.Description("Recipient id")),
			),
			Handler: s.handleSetActiveRecipient,
		},

		// Fields
		{
			Tool: newTool("envelope_add_field",
				mcp.WithString("type", mcp.Required(), mcp.Description("Field type"), mcp.Enum(fieldTypeNames()...)),
				mcp.WithNumber("page", mcp.Required(), mcp.Description("1-based page number")),
				mcp.WithNumber("x", mcp.Required(), mcp.Description("X in document units from the left edge")),
				mcp.WithNumber("y", mcp.Required(), mcp.Description("Y in document units from the top edge")),
				mcp.WithString("documentId", mcp.Description("Document id (defaults to the active document)")),
			),
			Handler: s.handleAddField,
		},
		{
			Tool: newTool("envelope_update_field",
				mcp.WithString("id", mcp.Required(), mcp.Description("Field id")),
				mcp.WithString("recipientId", mcp.Description("Reassign to this recipient")),
				mcp.WithNumber("page", mcp.Description("Page number")),
				mcp.WithNumber("x", mcp.Description("X position")),
				mcp.WithNumber("y", mcp.Description("Y position")),
				mcp.WithNumber("width", mcp.Description("Width")),
				mcp.WithNumber("height", mcp.Description("Height")),
				mcp.WithBoolean("required", mcp.Description("Recipient must fill the field")),
				mcp.WithBoolean("readOnly", mcp.Description("Recipient cannot change the value")),
				mcp.WithBoolean("locked", mcp.Description("Field is locked")),
				mcp.WithString("label", mcp.Description("Display label")),
				mcp.WithString("tabLabel", mcp.Description("Tab label used for data binding")),
				mcp.WithString("tooltip", mcp.Description("Tooltip shown to the recipient")),
				mcp.WithString("value", mcp.Description("Default value")),
				mcp.WithString("fontFamily", mcp.Description("Font family")),
				mcp.WithNumber("fontSize", mcp.Description("Font size")),
				mcp.WithString("fontColor", mcp.Description("Font colour")),
				mcp.WithBoolean("bold", mcp.Description("Bold text")),
				mcp.WithBoolean("italic", mcp.Description("Italic text")),
				mcp.WithBoolean("underline", mcp.Description("Underlined text")),
				mcp.WithString("conditionalParentLabel", mcp.Description("Show only when this tab label...")),
				mcp.WithString("conditionalParentValue", mcp.Description("...has this value")),
				mcp.WithNumber("maxLength", mcp.Description("Maximum length of text and number fields")),
				mcp.WithString("validationPattern", mcp.Description("Validation regular expression")),
				mcp.WithString("validationMessage", mcp.Description("Message shown when validation fails")),
				mcp.WithArray("listItems",
					mcp.Description("Dropdown options, each with text and value"),
					mcp.Items(map[string]any{
						"type": "object",
						"properties": map[string]any{
							"text":  map[string]any{"type": "string"},
							"value": map[string]any{"type": "string"},
						},
					}),
				),
				mcp.WithString("groupName", mcp.Description("Radio group name")),
				mcp.WithString("formula", mcp.Description("Formula expression")),
				mcp.WithNumber("scale", mcp.Description("Scale percentage of signature style fields (50 to 200)")),
			),
			Handler: s.handleUpdateField,
		},
		{
			Tool: newTool("envelope_remove_field",
				mcp.WithString("id", mcp.Required(), mcp.Description("Field id")),
			),
			Handler: s.handleRemoveField,
		},
		{
			Tool: newTool("envelope_duplicate_field",
				mcp.WithString("id", mcp.Required(), mcp.Description("Field id")),
			),
			Handler: s.handleDuplicateField,
		},

		// Gestures
		{
			Tool: newTool("envelope_gesture",
				mcp.WithString("action", mcp.Required(),
					mcp.Enum("begin_drag", "begin_resize", "begin_item_drag", "move", "end")),
				mcp.WithString("fieldId", mcp.Description("Field id (begin actions)")),
				mcp.WithString("corner", mcp.Description("Corner handle (begin_resize)"), mcp.Enum("nw", "ne", "sw", "se")),
				mcp.WithNumber("index", mcp.Description("Group item index (begin_item_drag)")),
				mcp.WithNumber("x", mcp.Description("Pointer x in screen units")),
				mcp.WithNumber("y", mcp.Description("Pointer y in screen units")),
				mcp.WithNumber("zoom", mcp.Description("Zoom for this move (defaults to the workspace zoom)")),
			),
			Handler: s.handleGesture,
		},
		{
			Tool: newTool("envelope_group_item",
				mcp.WithString("action", mcp.Required(), mcp.Enum("add", "select", "rename", "remove")),
				mcp.WithString("fieldId", mcp.Required(), mcp.Description("Group field id")),
				mcp.WithNumber("index", mcp.Description("Item index")),
				mcp.WithBoolean("selected", mcp.Description("Selection state (select)")),
				mcp.WithString("value", mcp.Description("New item value (rename)")),
			),
			Handler: s.handleGroupItem,
		},

		// Envelope
		{
			Tool: newTool("envelope_settings",
				mcp.WithString("emailSubject", mcp.Description("Email subject")),
				mcp.WithString("emailBlurb", mcp.Description("Email message")),
				mcp.WithString("status", mcp.Description("Envelope status"), mcp.Enum("created", "sent")),
				mcp.WithBoolean("reminderEnabled", mcp.Description("Send reminders")),
				mcp.WithNumber("reminderDelay", mcp.Description("Days before the first reminder")),
				mcp.WithNumber("reminderFrequency", mcp.Description("Days between reminders")),
				mcp.WithBoolean("expireEnabled", mcp.Description("Expire the envelope")),
				mcp.WithNumber("expireAfter", mcp.Description("Days until the envelope expires")),
				mcp.WithNumber("expireWarn", mcp.Description("Days before expiry to warn")),
				mcp.WithNumber("zoom", mcp.Description("Zoom gestures are interpreted at")),
			),
			Handler: s.handleSettings,
		},
		{
			Tool: newTool("envelope_page_viewport",
				mcp.WithString("documentId", mcp.Description("Document id (defaults to the active document)")),
				mcp.WithNumber("page", mcp.Description("1-based page number"), mcp.DefaultNumber(1)),
				mcp.WithNumber("scale", mcp.Description("Zoom scale (defaults to the workspace zoom)")),
			),
			Handler: s.handlePageViewport,
		},
		{
			Tool:    newTool("envelope_export"),
			Handler: s.handleExport,
		},
		{
			Tool:    newTool("envelope_reset"),
			Handler: s.handleReset,
		},
		{
			Tool:    newTool("envelope_info"),
			Handler: s.handleInfo,
		},
	}
}
