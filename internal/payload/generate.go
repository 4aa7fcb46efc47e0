package payload

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
)

// tabTypes maps field types to the tab list they are serialized under
var tabTypes = map[envelope.FieldType]string{
	envelope.FieldSignHere:      "signHereTabs",
	envelope.FieldInitialHere:   "initialHereTabs",
	envelope.FieldDateSigned:    "dateSignedTabs",
	envelope.FieldFullName:      "fullNameTabs",
	envelope.FieldEmailAddress:  "emailAddressTabs",
	envelope.FieldCompany:       "companyTabs",
	envelope.FieldTitle:         "titleTabs",
	envelope.FieldText:          "textTabs",
	envelope.FieldNumber:        "numberTabs",
	envelope.FieldCheckbox:      "checkboxTabs",
	envelope.FieldCheckboxGroup: "checkboxTabs",
	envelope.FieldList:          "listTabs",
	envelope.FieldRadioGroup:    "radioGroupTabs",
	envelope.FieldNote:          "noteTabs",
	envelope.FieldApprove:       "approveTabs",
	envelope.FieldDecline:       "declineTabs",
	envelope.FieldFormula:       "formulaTabs",
	envelope.FieldAttachment:    "signerAttachmentTabs",
	envelope.FieldStampHere:     "stampHereTabs",
}

// TabType returns the wire list name for a field type. Unknown types fall
// back to "{type}Tabs".
func TabType(t envelope.FieldType) string {
	if name, ok := tabTypes[t]; ok {
		return name
	}
	return string(t) + "Tabs"
}

// Generate builds the envelope request for a snapshot. It only reads s and
// returns the same result for the same input.
func Generate(s envelope.Snapshot) Envelope {
	settings := s.Settings
	env := Envelope{
		EmailSubject: settings.EmailSubject,
		EmailBlurb:   settings.EmailBlurb,
		Status:       string(settings.Status),
		Documents:    make([]Document, 0, len(s.Documents)),
		Recipients:   make(map[string][]Recipient),
	}
	if env.EmailSubject == "" {
		env.EmailSubject = DefaultEmailSubject
	}

	if settings.ReminderEnabled || settings.ExpireEnabled {
		env.Notification = &Notification{
			UseAccountDefaults: "false",
			Reminders: Reminders{
				ReminderEnabled:   strconv.FormatBool(settings.ReminderEnabled),
				ReminderDelay:     strconv.Itoa(settings.ReminderDelay),
				ReminderFrequency: strconv.Itoa(settings.ReminderFrequency),
			},
			Expirations: Expirations{
				ExpireEnabled: strconv.FormatBool(settings.ExpireEnabled),
				ExpireAfter:   strconv.Itoa(settings.ExpireAfter),
				ExpireWarn:    strconv.Itoa(settings.ExpireWarn),
			},
		}
	}

	// document ids on the wire are positions, not the stored order
	docIndex := make(map[string]string, len(s.Documents))
	for i, doc := range s.Documents {
		id := strconv.Itoa(i + 1)
		docIndex[doc.ID] = id
		env.Documents = append(env.Documents, Document{
			DocumentID:     id,
			Name:           doc.Name,
			FileExtension:  fileExtension(doc.Name),
			DocumentBase64: DocumentContentPlaceholder,
			Order:          strconv.Itoa(doc.Order),
		})
	}

	for _, r := range s.Recipients {
		rec := Recipient{
			RecipientID:  r.ExternalNumber,
			Name:         r.Name,
			Email:        r.Email,
			RoutingOrder: strconv.Itoa(r.RoutingOrder),
			Tabs:         make(map[string][]Tab),
		}

		order := 1
		for _, f := range s.Fields {
			if f.RecipientID != r.ID {
				continue
			}
			docID, ok := docIndex[f.DocumentID]
			if !ok {
				docID = "0"
			}
			tabType := TabType(f.Type)

			if f.Type == envelope.FieldCheckboxGroup {
				for _, item := range f.GroupItems() {
					rec.Tabs[tabType] = append(rec.Tabs[tabType], checkboxTab(f, item, docID, order))
					order++
				}
				if _, ok := rec.Tabs[tabType]; !ok {
					rec.Tabs[tabType] = []Tab{}
				}
				continue
			}

			rec.Tabs[tabType] = append(rec.Tabs[tabType], fieldTab(f, docID, order))
			order++
		}

		role := string(r.Type)
		env.Recipients[role] = append(env.Recipients[role], rec)
	}

	return env
}

// fieldTab serializes every field type except checkbox groups
func fieldTab(f envelope.Field, docID string, order int) Tab {
	tab := Tab{
		DocumentID: docID,
		PageNumber: strconv.Itoa(f.PageNumber),
		XPosition:  formatCoord(f.X),
		YPosition:  formatCoord(f.Y),
		TabLabel:   f.TabLabel,
		TabOrder:   strconv.Itoa(order),
		Required:   strconv.FormatBool(f.Required),
	}

	if f.Type.IsScalable() && f.Scale != nil {
		tab.ScaleValue = strconv.Itoa(f.Scale.Value)
	} else {
		tab.Width = formatNonZero(f.Width)
		tab.Height = formatNonZero(f.Height)
	}

	tab.ToolTip = f.Tooltip
	tab.Font = f.Font.Family
	if f.Font.Size != 0 {
		tab.FontSize = fmt.Sprintf("Size%d", f.Font.Size)
	}
	tab.FontColor = f.Font.Color
	tab.Bold = formatTrue(f.Font.Bold)
	tab.Italic = formatTrue(f.Font.Italic)
	tab.Underline = formatTrue(f.Font.Underline)
	tab.Locked = formatTrue(f.Locked)
	tab.ReadOnly = formatTrue(f.ReadOnly)

	if f.Type == envelope.FieldCheckbox {
		tab.Selected = strconv.FormatBool(f.Value == "true" || f.Value == "yes")
	} else {
		tab.Value = f.Value
	}
	tab.ConditionalParentLabel = f.Conditional.ParentLabel
	tab.ConditionalParentValue = f.Conditional.ParentValue

	switch {
	case f.List != nil:
		tab.ListTab = &ListTab{ListItems: make([]ListItem, 0, len(f.List.Items))}
		for _, it := range f.List.Items {
			tab.ListItems = append(tab.ListItems, ListItem{Text: it.Text, Value: it.Value})
		}
	case f.Radio != nil:
		tab.RadioGroupTab = &RadioGroupTab{
			GroupName: f.Radio.GroupName,
			Radios:    make([]Radio, 0, len(f.Radio.Items)),
		}
		for _, it := range f.Radio.Items {
			tab.Radios = append(tab.Radios, Radio{
				PageNumber: strconv.Itoa(f.PageNumber),
				XPosition:  formatCoord(f.X + it.X),
				YPosition:  formatCoord(f.Y + it.Y),
				Value:      it.Value,
				Selected:   strconv.FormatBool(it.Selected),
			})
		}
	case f.Formula != nil:
		tab.Formula = f.Formula.Expression
	case f.Text != nil:
		if f.Text.MaxLength != 0 {
			tab.MaxLength = strconv.Itoa(f.Text.MaxLength)
		}
		tab.ValidationPattern = f.Text.ValidationPattern
		tab.ValidationMessage = f.Text.ValidationMessage
	}
	return tab
}

// checkboxTab serializes one checkbox of a group at its absolute position.
// The group's shared flags are copied onto each checkbox.
func checkboxTab(f envelope.Field, item envelope.GroupItem, docID string, order int) Tab {
	return Tab{
		DocumentID:             docID,
		PageNumber:             strconv.Itoa(f.PageNumber),
		XPosition:              formatCoord(f.X + item.X),
		YPosition:              formatCoord(f.Y + item.Y),
		TabLabel:               item.Value,
		TabOrder:               strconv.Itoa(order),
		Required:               strconv.FormatBool(f.Required),
		Selected:               strconv.FormatBool(item.Selected),
		ToolTip:                f.Tooltip,
		Locked:                 formatTrue(f.Locked),
		ReadOnly:               formatTrue(f.ReadOnly),
		ConditionalParentLabel: f.Conditional.ParentLabel,
		ConditionalParentValue: f.Conditional.ParentValue,
	}
}

// fileExtension returns the text after the last dot, or the whole name
func fileExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// formatCoord rounds a position to whole units, halves rounding up
func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Floor(v+0.5), 'f', -1, 64)
}

func formatNonZero(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTrue(b bool) string {
	if !b {
		return ""
	}
	return "true"
}

// Marshal encodes the envelope as indented JSON
func Marshal(env Envelope) ([]byte, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return data, nil
}

// Counts summarises a generated envelope
type Counts struct {
	Documents  int            `json:"documents"`
	Recipients int            `json:"recipients"`
	Tabs       int            `json:"tabs"`
	ByType     map[string]int `json:"by_type"`
	// TabsByRecipient is keyed by the wire recipient id
	TabsByRecipient map[string]int `json:"tabs_by_recipient"`
}

// Count walks an envelope and tallies documents, recipients and tabs
func Count(env Envelope) Counts {
	c := Counts{
		Documents:       len(env.Documents),
		ByType:          make(map[string]int),
		TabsByRecipient: make(map[string]int),
	}
	for _, recipients := range env.Recipients {
		for _, r := range recipients {
			c.Recipients++
			n := 0
			for tabType, tabs := range r.Tabs {
				n += len(tabs)
				c.ByType[tabType] += len(tabs)
			}
			c.Tabs += n
			c.TabsByRecipient[r.RecipientID] += n
		}
	}
	return c
}
