package envelope

import "slices"

// Document is an uploaded file the overlay is drawn on. Its bytes live in the
// BinaryTable, never here.
type Document struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PageCount int    `json:"page_count"`
	Order     int    `json:"order"`
}

// RecipientType is the wire name of a recipient role
type RecipientType string

const (
	RecipientSigners             RecipientType = "signers"
	RecipientCarbonCopies        RecipientType = "carbonCopies"
	RecipientCertifiedDeliveries RecipientType = "certifiedDeliveries"
	RecipientInPersonSigners     RecipientType = "inPersonSigners"
	RecipientAgents              RecipientType = "agents"
	RecipientIntermediaries      RecipientType = "intermediaries"
)

// Recipient receives the envelope. ExternalNumber is assigned once at creation
// and is used for tab labels and the serialized recipient id.
type Recipient struct {
	ID             string        `json:"id"`
	Type           RecipientType `json:"type"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	RoutingOrder   int           `json:"routing_order"`
	ExternalNumber string        `json:"external_number"`
}

// FieldType identifies the kind of a placed field
type FieldType string

const (
	FieldSignHere      FieldType = "signHere"
	FieldInitialHere   FieldType = "initialHere"
	FieldDateSigned    FieldType = "dateSignedTabs"
	FieldFullName      FieldType = "fullName"
	FieldEmailAddress  FieldType = "emailAddress"
	FieldCompany       FieldType = "company"
	FieldTitle         FieldType = "title"
	FieldText          FieldType = "text"
	FieldNumber        FieldType = "number"
	FieldCheckbox      FieldType = "checkbox"
	FieldCheckboxGroup FieldType = "checkboxGroup"
	FieldList          FieldType = "list"
	FieldRadioGroup    FieldType = "radioGroup"
	FieldNote          FieldType = "note"
	FieldApprove       FieldType = "approve"
	FieldDecline       FieldType = "decline"
	FieldFormula       FieldType = "formulaTab"
	FieldAttachment    FieldType = "attachmentTab"
	FieldStampHere     FieldType = "stampHere"
)

// IsScalable reports whether the type sizes by percentage instead of width/height
func (t FieldType) IsScalable() bool {
	return t == FieldSignHere || t == FieldInitialHere || t == FieldStampHere
}

// IsGroup reports whether the type carries positioned sub-items
func (t FieldType) IsGroup() bool {
	return t == FieldRadioGroup || t == FieldCheckboxGroup
}

// Font holds the text styling of a field
type Font struct {
	Family    string `json:"family"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Underline bool   `json:"underline"`
}

// Conditional makes a field visible only when another field has a given value
type Conditional struct {
	ParentLabel string `json:"parent_label"`
	ParentValue string `json:"parent_value"`
}

// ListItem is one option of a dropdown
type ListItem struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// GroupItem is a radio button or checkbox inside a group field. X and Y are
// offsets from the owning field's origin.
type GroupItem struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Value    string  `json:"value"`
	Selected bool    `json:"selected"`
}

// TextConfig applies to text and number fields
type TextConfig struct {
	MaxLength         int    `json:"max_length"`
	ValidationPattern string `json:"validation_pattern"`
	ValidationMessage string `json:"validation_message"`
}

// ListConfig applies to dropdowns. The selected default lives in Field.Value.
type ListConfig struct {
	Items []ListItem `json:"items"`
}

// RadioGroupConfig applies to radio groups
type RadioGroupConfig struct {
	GroupName string      `json:"group_name"`
	Items     []GroupItem `json:"items"`
}

// CheckboxGroupConfig applies to checkbox groups
type CheckboxGroupConfig struct {
	Items []GroupItem `json:"items"`
}

// FormulaConfig applies to formula fields
type FormulaConfig struct {
	Expression string `json:"expression"`
}

// ScaleConfig applies to signHere, initialHere and stampHere
type ScaleConfig struct {
	Value int `json:"value"`
}

// Field is a placed overlay element. The header is shared by every type; at
// most one of the config pointers is set, selected by Type.
type Field struct {
	ID          string      `json:"id"`
	Type        FieldType   `json:"type"`
	DocumentID  string      `json:"document_id"`
	RecipientID string      `json:"recipient_id"`
	PageNumber  int         `json:"page_number"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Required    bool        `json:"required"`
	ReadOnly    bool        `json:"read_only"`
	Locked      bool        `json:"locked"`
	Label       string      `json:"label"`
	TabLabel    string      `json:"tab_label"`
	Tooltip     string      `json:"tooltip"`
	Font        Font        `json:"font"`
	Value       string      `json:"value"`
	Conditional Conditional `json:"conditional"`

	Text     *TextConfig          `json:"text,omitempty"`
	List     *ListConfig          `json:"list,omitempty"`
	Radio    *RadioGroupConfig    `json:"radio,omitempty"`
	Checkbox *CheckboxGroupConfig `json:"checkbox,omitempty"`
	Formula  *FormulaConfig       `json:"formula,omitempty"`
	Scale    *ScaleConfig         `json:"scale,omitempty"`
}

// Clone returns a deep copy, including nested item lists
func (f Field) Clone() Field {
	c := f
	if f.Text != nil {
		t := *f.Text
		c.Text = &t
	}
	if f.List != nil {
		c.List = &ListConfig{Items: slices.Clone(f.List.Items)}
	}
	if f.Radio != nil {
		c.Radio = &RadioGroupConfig{GroupName: f.Radio.GroupName, Items: slices.Clone(f.Radio.Items)}
	}
	if f.Checkbox != nil {
		c.Checkbox = &CheckboxGroupConfig{Items: slices.Clone(f.Checkbox.Items)}
	}
	if f.Formula != nil {
		fc := *f.Formula
		c.Formula = &fc
	}
	if f.Scale != nil {
		sc := *f.Scale
		c.Scale = &sc
	}
	return c
}

// ScaleValue returns the scale percentage, 100 when the field has none
func (f Field) ScaleValue() int {
	if f.Scale == nil {
		return 100
	}
	return f.Scale.Value
}

// GroupItems returns the sub-items of a radio or checkbox group, nil otherwise.
// The slice is shared with the field; use Clone before mutating.
func (f Field) GroupItems() []GroupItem {
	switch {
	case f.Radio != nil:
		return f.Radio.Items
	case f.Checkbox != nil:
		return f.Checkbox.Items
	}
	return nil
}

// WithGroupItems returns a copy of f whose group list is replaced by items.
// Non-group fields are returned unchanged.
func (f Field) WithGroupItems(items []GroupItem) Field {
	c := f
	switch {
	case f.Radio != nil:
		c.Radio = &RadioGroupConfig{GroupName: f.Radio.GroupName, Items: items}
	case f.Checkbox != nil:
		c.Checkbox = &CheckboxGroupConfig{Items: items}
	}
	return c
}

// EnvelopeStatus is the status the envelope is created with
type EnvelopeStatus string

const (
	StatusCreated EnvelopeStatus = "created"
	StatusSent    EnvelopeStatus = "sent"
)

// Settings holds envelope-level metadata and notification options
type Settings struct {
	EmailSubject      string         `json:"email_subject"`
	EmailBlurb        string         `json:"email_blurb"`
	Status            EnvelopeStatus `json:"status"`
	ReminderEnabled   bool           `json:"reminder_enabled"`
	ReminderDelay     int            `json:"reminder_delay"`
	ReminderFrequency int            `json:"reminder_frequency"`
	ExpireEnabled     bool           `json:"expire_enabled"`
	ExpireAfter       int            `json:"expire_after"`
	ExpireWarn        int            `json:"expire_warn"`
}

// DefaultSettings returns the settings of a fresh envelope
func DefaultSettings() Settings {
	return Settings{
		Status:            StatusSent,
		ReminderDelay:     1,
		ReminderFrequency: 1,
		ExpireAfter:       120,
		ExpireWarn:        3,
	}
}

// Snapshot is an immutable deep copy of the store, the input of the serializer
type Snapshot struct {
	Settings   Settings    `json:"settings"`
	Documents  []Document  `json:"documents"`
	Recipients []Recipient `json:"recipients"`
	Fields     []Field     `json:"fields"`
}
