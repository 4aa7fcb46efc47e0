// Package payload converts a store snapshot into the envelope creation JSON
// accepted by the signing service. Every leaf value on the wire is a string.
package payload

// DocumentContentPlaceholder stands in for the base64 document bytes. The
// caller substitutes the real content before sending the envelope.
const DocumentContentPlaceholder = "{{BASE64_DOCUMENT_CONTENT}}"

// DefaultEmailSubject is used when the envelope has no subject
const DefaultEmailSubject = "Please sign this document"

// Envelope is the top level request body
type Envelope struct {
	EmailSubject string                 `json:"emailSubject"`
	EmailBlurb   string                 `json:"emailBlurb"`
	Status       string                 `json:"status"`
	Notification *Notification          `json:"notification,omitempty"`
	Documents    []Document             `json:"documents"`
	Recipients   map[string][]Recipient `json:"recipients"`
}

// Notification carries reminder and expiration options
type Notification struct {
	UseAccountDefaults string      `json:"useAccountDefaults"`
	Reminders          Reminders   `json:"reminders"`
	Expirations        Expirations `json:"expirations"`
}

// Reminders configures reminder emails
type Reminders struct {
	ReminderEnabled   string `json:"reminderEnabled"`
	ReminderDelay     string `json:"reminderDelay"`
	ReminderFrequency string `json:"reminderFrequency"`
}

// Expirations configures envelope expiry
type Expirations struct {
	ExpireEnabled string `json:"expireEnabled"`
	ExpireAfter   string `json:"expireAfter"`
	ExpireWarn    string `json:"expireWarn"`
}

// Document references one uploaded file
type Document struct {
	DocumentID     string `json:"documentId"`
	Name           string `json:"name"`
	FileExtension  string `json:"fileExtension"`
	DocumentBase64 string `json:"documentBase64"`
	Order          string `json:"order"`
}

// Recipient is one entry under a role list. Tabs are keyed by wire tab type.
type Recipient struct {
	RecipientID  string           `json:"recipientId"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	RoutingOrder string           `json:"routingOrder"`
	Tabs         map[string][]Tab `json:"tabs"`
}

// Tab is a serialized field, or one checkbox of a checkbox group
type Tab struct {
	DocumentID string `json:"documentId"`
	PageNumber string `json:"pageNumber"`
	XPosition  string `json:"xPosition"`
	YPosition  string `json:"yPosition"`
	TabLabel   string `json:"tabLabel"`
	TabOrder   string `json:"tabOrder,omitempty"`
	Required   string `json:"required"`

	Width      string `json:"width,omitempty"`
	Height     string `json:"height,omitempty"`
	ScaleValue string `json:"scaleValue,omitempty"`

	ToolTip   string `json:"toolTip,omitempty"`
	Font      string `json:"font,omitempty"`
	FontSize  string `json:"fontSize,omitempty"`
	FontColor string `json:"fontColor,omitempty"`
	Bold      string `json:"bold,omitempty"`
	Italic    string `json:"italic,omitempty"`
	Underline string `json:"underline,omitempty"`
	Locked    string `json:"locked,omitempty"`
	ReadOnly  string `json:"readOnly,omitempty"`
	Selected  string `json:"selected,omitempty"`
	Value     string `json:"value,omitempty"`

	ConditionalParentLabel string `json:"conditionalParentLabel,omitempty"`
	ConditionalParentValue string `json:"conditionalParentValue,omitempty"`

	*ListTab
	*RadioGroupTab

	Formula           string `json:"formula,omitempty"`
	MaxLength         string `json:"maxLength,omitempty"`
	ValidationPattern string `json:"validationPattern,omitempty"`
	ValidationMessage string `json:"validationMessage,omitempty"`
}

// ListTab holds the keys only list tabs carry. They are always present on a
// list tab, even when empty.
type ListTab struct {
	ListItems []ListItem `json:"listItems"`
}

// RadioGroupTab holds the keys only radio group tabs carry. They are always
// present on a radio group tab, even when empty.
type RadioGroupTab struct {
	GroupName string  `json:"groupName"`
	Radios    []Radio `json:"radios"`
}

// Radio is one button of a radio group tab, at an absolute page position
type Radio struct {
	PageNumber string `json:"pageNumber"`
	XPosition  string `json:"xPosition"`
	YPosition  string `json:"yPosition"`
	Value      string `json:"value"`
	Selected   string `json:"selected"`
}

// ListItem is one dropdown option, copied verbatim
type ListItem struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}
