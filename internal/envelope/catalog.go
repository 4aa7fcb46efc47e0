package envelope

// FieldCategory groups field types in the palette
type FieldCategory string

const (
	CategorySignature FieldCategory = "signature"
	CategoryStandard  FieldCategory = "standard"
	CategoryInput     FieldCategory = "input"
	CategoryOther     FieldCategory = "other"
)

// FieldTypeDefinition describes a placeable field type
type FieldTypeDefinition struct {
	Type          FieldType     `json:"type"`
	Label         string        `json:"label"`
	Category      FieldCategory `json:"category"`
	DefaultWidth  float64       `json:"default_width"`
	DefaultHeight float64       `json:"default_height"`
}

// FieldTypes is the palette, in display order
var FieldTypes = []FieldTypeDefinition{
	{Type: FieldSignHere, Label: "Sign", Category: CategorySignature, DefaultWidth: 74, DefaultHeight: 44},
	{Type: FieldInitialHere, Label: "Initial", Category: CategorySignature, DefaultWidth: 50, DefaultHeight: 40},
	{Type: FieldDateSigned, Label: "Date Signed", Category: CategorySignature, DefaultWidth: 150, DefaultHeight: 20},
	{Type: FieldFullName, Label: "Name", Category: CategoryStandard, DefaultWidth: 150, DefaultHeight: 20},
	{Type: FieldEmailAddress, Label: "Email", Category: CategoryStandard, DefaultWidth: 200, DefaultHeight: 20},
	{Type: FieldCompany, Label: "Company", Category: CategoryStandard, DefaultWidth: 150, DefaultHeight: 20},
	{Type: FieldTitle, Label: "Title", Category: CategoryStandard, DefaultWidth: 150, DefaultHeight: 20},
	{Type: FieldText, Label: "Text", Category: CategoryInput, DefaultWidth: 150, DefaultHeight: 20},
	{Type: FieldNumber, Label: "Number", Category: CategoryInput, DefaultWidth: 120, DefaultHeight: 20},
	{Type: FieldCheckboxGroup, Label: "Checkbox", Category: CategoryInput, DefaultWidth: 20, DefaultHeight: 20},
	{Type: FieldList, Label: "Dropdown", Category: CategoryInput, DefaultWidth: 150, DefaultHeight: 25},
	{Type: FieldRadioGroup, Label: "Radio", Category: CategoryInput, DefaultWidth: 20, DefaultHeight: 20},
	{Type: FieldNote, Label: "Note", Category: CategoryOther, DefaultWidth: 200, DefaultHeight: 60},
	{Type: FieldApprove, Label: "Approve", Category: CategoryOther, DefaultWidth: 100, DefaultHeight: 30},
	{Type: FieldDecline, Label: "Decline", Category: CategoryOther, DefaultWidth: 100, DefaultHeight: 30},
	{Type: FieldFormula, Label: "Formula", Category: CategoryOther, DefaultWidth: 150, DefaultHeight: 20},
	{Type: FieldAttachment, Label: "Attachment", Category: CategoryOther, DefaultWidth: 100, DefaultHeight: 30},
	{Type: FieldStampHere, Label: "Stamp", Category: CategorySignature, DefaultWidth: 74, DefaultHeight: 44},
}

// LookupFieldType returns the palette entry for t
func LookupFieldType(t FieldType) (FieldTypeDefinition, bool) {
	for _, def := range FieldTypes {
		if def.Type == t {
			return def, true
		}
	}
	return FieldTypeDefinition{}, false
}

// RecipientTypeOption pairs a role with its display label
type RecipientTypeOption struct {
	Value RecipientType `json:"value"`
	Label string        `json:"label"`
}

// RecipientTypes lists the six roles
var RecipientTypes = []RecipientTypeOption{
	{Value: RecipientSigners, Label: "Needs to Sign"},
	{Value: RecipientCarbonCopies, Label: "Receives a Copy"},
	{Value: RecipientCertifiedDeliveries, Label: "Needs to View"},
	{Value: RecipientInPersonSigners, Label: "In Person Signer"},
	{Value: RecipientAgents, Label: "Manages Envelope"},
	{Value: RecipientIntermediaries, Label: "Allow to Edit"},
}

// ValidRecipientType reports whether t is one of the six roles
func ValidRecipientType(t RecipientType) bool {
	for _, opt := range RecipientTypes {
		if opt.Value == t {
			return true
		}
	}
	return false
}

// Font options offered by the property editor
var (
	FontFamilies = []string{
		"Lucida Console", "Arial", "Courier New", "Georgia", "Helvetica",
		"Times New Roman", "Trebuchet MS", "Verdana",
	}

	FontSizes = []int{7, 8, 9, 10, 11, 12, 14, 16, 18, 20, 22, 24, 26, 28, 36, 48}

	FontColors = []string{
		"Black", "Blue", "BrightBlue", "BrightRed", "DarkGreen", "DarkRed",
		"Gold", "Green", "NavyBlue", "Purple", "White",
	}
)

// DefaultFont is applied to every new field
var DefaultFont = Font{Family: "Lucida Console", Size: 9, Color: "Black"}

var recipientColors = []string{
	"#4C71BF", "#D95A2B", "#2FA44F", "#9B3AB1",
	"#E6A522", "#1A8BAF", "#D4456A", "#6B7B8D",
}

// Default sub-item layout of new groups
const (
	defaultItemSpacing = 28
	defaultItemCount   = 3
	defaultMaxLength   = 4000

	// DuplicateOffset is added to x and y of a duplicated field
	DuplicateOffset = 20.0
)
