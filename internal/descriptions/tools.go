package descriptions

import "sort"

// Tool descriptions with practical examples and workflows

const (
	// Documents
	AddDocumentDescription = `Load a PDF from the document directory into the envelope.

**When to use:** Starting a new envelope, or attaching another document to the current one.

**Why it's useful:** Reads the page count and page sizes so fields can be placed on real page coordinates. The document becomes the active one.

**Examples:**
• "Add contract.pdf to the envelope"
• "Attach annex/pricing.pdf as a second document"

**Best practices:** Use envelope_list_files first to see which PDFs are available. Paths are relative to the document directory.`

	RemoveDocumentDescription = `Remove a document from the envelope together with every field placed on it.

**When to use:** A document was added by mistake or is no longer part of the envelope.`

	SetActiveDocumentDescription = `Make a document the active one. New fields are placed on the active document by default.`

	ListFilesDescription = `List the PDFs available in the document directory.

**When to use:** Before envelope_add_document, to find the right path.`

	// Recipients
	AddRecipientDescription = `Add a recipient to the envelope. The recipient starts as a signer with the next routing order.

**When to use:** Every field belongs to a recipient, so add at least one before placing fields.

**Examples:**
• "Add Jane Doe (jane@example.com) as a signer"
• "Add legal@example.com as a carbon copy"

**Best practices:** The first recipient becomes active. Use envelope_set_active_recipient to switch who new fields are assigned to.`

	UpdateRecipientDescription = `Change a recipient's name, email, role or routing order.

**Roles:** signers, carbonCopies, certifiedDeliveries, inPersonSigners, agents, intermediaries.`

	RemoveRecipientDescription = `Remove a recipient and every field assigned to them.`

	SetActiveRecipientDescription = `Make a recipient the active one. New fields are assigned to the active recipient.`

	// Fields
	AddFieldDescription = `Place a field on a page of a document for the active recipient.

**When to use:** Marking where a recipient signs, initials, dates or fills in information.

**Field types:** signHere, initialHere, dateSignedTabs, fullName, emailAddress, company, title, text, number, checkbox, checkboxGroup, list, radioGroup, note, approve, decline, formulaTab, attachmentTab, stampHere.

**Examples:**
• "Put a signHere on page 3 at x=100, y=600"
• "Add a radioGroup on page 1 for the payment method"

**Best practices:** Coordinates are document units from the top-left corner of the page. Use envelope_page_viewport to learn the page size.`

	UpdateFieldDescription = `Change properties of a placed field: position, size, flags, label, tooltip, value, font, validation, list items, formula or scale.

**When to use:** Fine-tuning a field after placing it.

**Best practices:** Numeric values may be passed as strings; values that do not parse keep the current setting.`

	RemoveFieldDescription = `Remove a placed field.`

	DuplicateFieldDescription = `Copy a field, offset by 20 units, with a fresh tab label. The copy becomes selected.`

	// Gestures
	GestureDescription = `Drive a pointer gesture on a field, the way a mouse would in the editor.

**Actions:**
• begin_drag: start moving a field (fieldId, x, y)
• begin_resize: start a corner gesture (fieldId, corner nw|ne|sw|se, x, y). Signature style fields scale instead of resizing
• begin_item_drag: start moving one radio button or checkbox inside its group (fieldId, index, x, y)
• move: move the pointer to x, y at the current zoom
• end: release the pointer

**Common workflows:**
1. Move a field: begin_drag → move → end
2. Enlarge a text box: begin_resize corner=se → move → end

**Best practices:** Pointer positions are screen units. Deltas are divided by the zoom before they reach the document.`

	GroupItemDescription = `Edit the items of a radioGroup or checkboxGroup.

**Actions:**
• add: append an item below the last one
• select: select or clear an item (index, selected). Radio groups keep at most one item selected
• rename: change an item's value (index, value)
• remove: delete an item (index)`

	// Envelope
	SettingsDescription = `Change envelope settings: email subject and message, status (created or sent), reminders and expiration.`

	PageViewportDescription = `Get the size of a document page at a zoom scale.

**When to use:** Converting between screen and document coordinates, or choosing where to place fields.`

	ExportDescription = `Generate the envelope definition JSON.

**When to use:** The layout is done and the envelope is ready to be created.

**Why it's useful:** Groups fields by recipient and tab type, numbers tabs in placement order, and encodes every value as a string. Document bytes are left as a placeholder.`

	ResetDescription = `Clear every document, recipient, field and setting and start over.`

	InfoDescription = `Get server information, the envelope summary and the available tools.

**When to use:** Starting a session or checking the state of the current envelope.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"envelope_add_document":         AddDocumentDescription,
	"envelope_remove_document":      RemoveDocumentDescription,
	"envelope_set_active_document":  SetActiveDocumentDescription,
	"envelope_list_files":           ListFilesDescription,
	"envelope_add_recipient":        AddRecipientDescription,
	"envelope_update_recipient":     UpdateRecipientDescription,
	"envelope_remove_recipient":     RemoveRecipientDescription,
	"envelope_set_active_recipient": SetActiveRecipientDescription,
	"envelope_add_field":            AddFieldDescription,
	"envelope_update_field":         UpdateFieldDescription,
	"envelope_remove_field":         RemoveFieldDescription,
	"envelope_duplicate_field":      DuplicateFieldDescription,
	"envelope_gesture":              GestureDescription,
	"envelope_group_item":           GroupItemDescription,
	"envelope_settings":             SettingsDescription,
	"envelope_page_viewport":        PageViewportDescription,
	"envelope_export":               ExportDescription,
	"envelope_reset":                ResetDescription,
	"envelope_info":                 InfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns every tool name in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
