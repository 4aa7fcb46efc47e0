// Package envelope is the single source of truth for an envelope being built:
// documents, recipients, placed fields and envelope settings.
//
// A Store is owned by one writer. Callers that share it between goroutines
// must serialize every call (see internal/mcp.Workspace).
package envelope

import (
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store holds the envelope state and funnels every mutation through a named
// operation.
type Store struct {
	settings   Settings
	documents  []Document
	recipients []Recipient
	fields     []Field

	selectedFieldID   string
	activeRecipientID string
	activeDocumentID  string

	// lastRecipientNumber only grows, so external numbers are never reissued
	lastRecipientNumber int

	binaries BinaryTable
	newID    func() string
	log      logrus.FieldLogger
}

// Option configures a Store
type Option func(*Store)

// WithBinaryTable sets the table document bytes are kept in
func WithBinaryTable(t BinaryTable) Option {
	return func(s *Store) { s.binaries = t }
}

// WithIDGenerator replaces the uuid generator, mostly for tests
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for debug tracing of mutations
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		settings: DefaultSettings(),
		binaries: NewMemoryBinaryTable(),
		newID:    func() string { return uuid.NewString() },
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Binaries returns the table holding document bytes
func (s *Store) Binaries() BinaryTable {
	return s.binaries
}

// AddDocument registers an uploaded document and stores its bytes out of band.
// The first document becomes the active one.
func (s *Store) AddDocument(name string, content []byte, pageCount int) Document {
	doc := Document{
		ID:        s.newID(),
		Name:      name,
		PageCount: pageCount,
		Order:     len(s.documents) + 1,
	}
	if content != nil {
		s.binaries.Put(doc.ID, content)
	}
	s.documents = append(s.documents, doc)
	if s.activeDocumentID == "" {
		s.activeDocumentID = doc.ID
	}
	s.log.WithFields(logrus.Fields{"document_id": doc.ID, "pages": pageCount}).Debug("document added")
	return doc
}

// RemoveDocument deletes a document, its bytes and every field placed on it
func (s *Store) RemoveDocument(id string) {
	idx := s.documentIndex(id)
	if idx < 0 {
		return
	}
	s.binaries.Remove(id)
	s.documents = slices.Delete(s.documents, idx, idx+1)
	s.removeFieldsWhere(func(f Field) bool { return f.DocumentID == id })

	if s.activeDocumentID == id {
		s.activeDocumentID = ""
		if len(s.documents) > 0 {
			s.activeDocumentID = s.documents[0].ID
		}
	}
	s.log.WithField("document_id", id).Debug("document removed")
}

// SetActiveDocument makes id the document placements go to
func (s *Store) SetActiveDocument(id string) {
	if s.documentIndex(id) >= 0 {
		s.activeDocumentID = id
	}
}

// ActiveDocument returns the active document
func (s *Store) ActiveDocument() (Document, bool) {
	return s.Document(s.activeDocumentID)
}

// Document looks up a document by id
func (s *Store) Document(id string) (Document, bool) {
	if idx := s.documentIndex(id); idx >= 0 {
		return s.documents[idx], true
	}
	return Document{}, false
}

// Documents returns the documents in upload order
func (s *Store) Documents() []Document {
	return slices.Clone(s.documents)
}

func (s *Store) documentIndex(id string) int {
	return slices.IndexFunc(s.documents, func(d Document) bool { return d.ID == id })
}

// AddRecipient appends a signer. The first recipient becomes the active one.
func (s *Store) AddRecipient() Recipient {
	s.lastRecipientNumber = max(s.lastRecipientNumber, len(s.recipients)) + 1
	r := Recipient{
		ID:             s.newID(),
		Type:           RecipientSigners,
		RoutingOrder:   len(s.recipients) + 1,
		ExternalNumber: strconv.Itoa(s.lastRecipientNumber),
	}
	s.recipients = append(s.recipients, r)
	if s.activeRecipientID == "" {
		s.activeRecipientID = r.ID
	}
	s.log.WithFields(logrus.Fields{"recipient_id": r.ID, "number": r.ExternalNumber}).Debug("recipient added")
	return r
}

// RecipientUpdate carries a partial recipient change; nil fields are left alone
type RecipientUpdate struct {
	Type         *RecipientType
	Name         *string
	Email        *string
	RoutingOrder *int
}

// UpdateRecipient merges changes into a recipient. The external number is
// never changed.
func (s *Store) UpdateRecipient(id string, u RecipientUpdate) {
	idx := s.recipientIndex(id)
	if idx < 0 {
		return
	}
	r := &s.recipients[idx]
	if u.Type != nil && ValidRecipientType(*u.Type) {
		r.Type = *u.Type
	}
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Email != nil {
		r.Email = *u.Email
	}
	if u.RoutingOrder != nil {
		r.RoutingOrder = *u.RoutingOrder
	}
}

// RemoveRecipient deletes a recipient and every field assigned to it
func (s *Store) RemoveRecipient(id string) {
	idx := s.recipientIndex(id)
	if idx < 0 {
		return
	}
	s.recipients = slices.Delete(s.recipients, idx, idx+1)
	s.removeFieldsWhere(func(f Field) bool { return f.RecipientID == id })

	if s.activeRecipientID == id {
		s.activeRecipientID = ""
		if len(s.recipients) > 0 {
			s.activeRecipientID = s.recipients[0].ID
		}
	}
	s.log.WithField("recipient_id", id).Debug("recipient removed")
}

// SetActiveRecipient makes id the owner of newly placed fields
func (s *Store) SetActiveRecipient(id string) {
	if s.recipientIndex(id) >= 0 {
		s.activeRecipientID = id
	}
}

// ActiveRecipient returns the active recipient
func (s *Store) ActiveRecipient() (Recipient, bool) {
	return s.Recipient(s.activeRecipientID)
}

// Recipient looks up a recipient by id
func (s *Store) Recipient(id string) (Recipient, bool) {
	if idx := s.recipientIndex(id); idx >= 0 {
		return s.recipients[idx], true
	}
	return Recipient{}, false
}

// Recipients returns the recipients in creation order
func (s *Store) Recipients() []Recipient {
	return slices.Clone(s.recipients)
}

// RecipientColor returns the overlay colour of a recipient
func (s *Store) RecipientColor(id string) string {
	idx := s.recipientIndex(id)
	if idx < 0 {
		idx = 0
	}
	return recipientColors[idx%len(recipientColors)]
}

func (s *Store) recipientIndex(id string) int {
	return slices.IndexFunc(s.recipients, func(r Recipient) bool { return r.ID == id })
}

// recipientNumber returns the external number of a recipient, "1" if unknown
func (s *Store) recipientNumber(id string) string {
	if r, ok := s.Recipient(id); ok {
		return r.ExternalNumber
	}
	return "1"
}

// AddField places a new field of type t for the active recipient and selects
// it. It returns false when there is no active recipient, the document does
// not exist or t is not a palette type.
func (s *Store) AddField(t FieldType, documentID string, page int, x, y float64) (Field, bool) {
	if s.activeRecipientID == "" || s.documentIndex(documentID) < 0 {
		return Field{}, false
	}
	def, ok := LookupFieldType(t)
	if !ok {
		return Field{}, false
	}

	f := Field{
		ID:          s.newID(),
		Type:        t,
		Label:       def.Label,
		DocumentID:  documentID,
		RecipientID: s.activeRecipientID,
		PageNumber:  page,
		X:           x,
		Y:           y,
		Width:       def.DefaultWidth,
		Height:      def.DefaultHeight,
		Required:    true,
		TabLabel:    GenerateTabLabel(t, s.recipientNumber(s.activeRecipientID), s.fields),
		Font:        DefaultFont,
	}
	s.seedConfig(&f)

	s.fields = append(s.fields, f)
	s.selectedFieldID = f.ID
	s.log.WithFields(logrus.Fields{"field_id": f.ID, "type": t, "tab_label": f.TabLabel}).Debug("field added")
	return f.Clone(), true
}

// seedConfig attaches the type specific defaults
func (s *Store) seedConfig(f *Field) {
	switch f.Type {
	case FieldList:
		f.List = &ListConfig{Items: []ListItem{{Text: "Option 1", Value: "option1"}}}
	case FieldRadioGroup:
		f.Radio = &RadioGroupConfig{
			GroupName: "RadioGroup_" + shortID(s.newID()),
			Items:     defaultGroupItems("Radio"),
		}
	case FieldCheckboxGroup:
		f.Checkbox = &CheckboxGroupConfig{Items: defaultGroupItems("Check")}
	case FieldFormula:
		f.Formula = &FormulaConfig{}
	case FieldSignHere, FieldInitialHere, FieldStampHere:
		f.Scale = &ScaleConfig{Value: 100}
	case FieldText, FieldNumber:
		f.Text = &TextConfig{MaxLength: defaultMaxLength}
	}
}

// shortID keeps the first six characters of an id
func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}

// defaultGroupItems stacks three items vertically with the first one selected
func defaultGroupItems(prefix string) []GroupItem {
	items := make([]GroupItem, defaultItemCount)
	for i := range items {
		items[i] = GroupItem{
			Y:        float64(i * defaultItemSpacing),
			Value:    prefix + strconv.Itoa(i+1),
			Selected: i == 0,
		}
	}
	return items
}

// FieldUpdate carries a partial field change; nil fields are left alone.
// Type specific fields are ignored when the field has no matching config.
// Item lists replace the previous list wholesale.
type FieldUpdate struct {
	RecipientID *string
	PageNumber  *int
	X           *float64
	Y           *float64
	Width       *float64
	Height      *float64
	Required    *bool
	ReadOnly    *bool
	Locked      *bool
	Label       *string
	TabLabel    *string
	Tooltip     *string
	Value       *string

	FontFamily *string
	FontSize   *int
	FontColor  *string
	Bold       *bool
	Italic     *bool
	Underline  *bool

	ConditionalParentLabel *string
	ConditionalParentValue *string

	MaxLength         *int
	ValidationPattern *string
	ValidationMessage *string
	ListItems         []ListItem
	GroupName         *string
	GroupItems        []GroupItem
	Formula           *string
	ScaleValue        *int
}

// UpdateField merges u into the field with the given id. Unknown ids are
// ignored. No geometry clamping happens here.
func (s *Store) UpdateField(id string, u FieldUpdate) {
	idx := s.fieldIndex(id)
	if idx < 0 {
		return
	}
	// work on a copy so item lists held by earlier readers keep their identity
	f := s.fields[idx].Clone()

	if u.RecipientID != nil && s.recipientIndex(*u.RecipientID) >= 0 {
		f.RecipientID = *u.RecipientID
	}
	setIf(&f.PageNumber, u.PageNumber)
	setIf(&f.X, u.X)
	setIf(&f.Y, u.Y)
	setIf(&f.Width, u.Width)
	setIf(&f.Height, u.Height)
	setIf(&f.Required, u.Required)
	setIf(&f.ReadOnly, u.ReadOnly)
	setIf(&f.Locked, u.Locked)
	setIf(&f.Label, u.Label)
	setIf(&f.TabLabel, u.TabLabel)
	setIf(&f.Tooltip, u.Tooltip)
	setIf(&f.Value, u.Value)
	setIf(&f.Font.Family, u.FontFamily)
	setIf(&f.Font.Size, u.FontSize)
	setIf(&f.Font.Color, u.FontColor)
	setIf(&f.Font.Bold, u.Bold)
	setIf(&f.Font.Italic, u.Italic)
	setIf(&f.Font.Underline, u.Underline)
	setIf(&f.Conditional.ParentLabel, u.ConditionalParentLabel)
	setIf(&f.Conditional.ParentValue, u.ConditionalParentValue)

	if f.Text != nil {
		setIf(&f.Text.MaxLength, u.MaxLength)
		setIf(&f.Text.ValidationPattern, u.ValidationPattern)
		setIf(&f.Text.ValidationMessage, u.ValidationMessage)
	}
	if f.List != nil && u.ListItems != nil {
		f.List.Items = slices.Clone(u.ListItems)
	}
	if f.Radio != nil {
		setIf(&f.Radio.GroupName, u.GroupName)
	}
	if u.GroupItems != nil {
		f = f.WithGroupItems(slices.Clone(u.GroupItems))
	}
	if f.Formula != nil {
		setIf(&f.Formula.Expression, u.Formula)
	}
	if f.Scale != nil {
		setIf(&f.Scale.Value, u.ScaleValue)
	}

	s.fields[idx] = f
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// RemoveField deletes a field and clears the selection if it was selected
func (s *Store) RemoveField(id string) {
	idx := s.fieldIndex(id)
	if idx < 0 {
		return
	}
	s.fields = slices.Delete(s.fields, idx, idx+1)
	if s.selectedFieldID == id {
		s.selectedFieldID = ""
	}
}

// SelectField marks id as the selected field
func (s *Store) SelectField(id string) {
	if s.fieldIndex(id) >= 0 {
		s.selectedFieldID = id
	}
}

// DeselectField clears the selection
func (s *Store) DeselectField() {
	s.selectedFieldID = ""
}

// SelectedField returns the selected field
func (s *Store) SelectedField() (Field, bool) {
	return s.Field(s.selectedFieldID)
}

// DuplicateField deep-copies a field, offsets it and gives it a new id and a
// fresh tab label. The copy becomes the selection.
func (s *Store) DuplicateField(id string) (Field, bool) {
	src, ok := s.Field(id)
	if !ok {
		return Field{}, false
	}
	dup := src.Clone()
	dup.ID = s.newID()
	dup.X = src.X + DuplicateOffset
	dup.Y = src.Y + DuplicateOffset
	dup.TabLabel = GenerateTabLabel(src.Type, s.recipientNumber(src.RecipientID), s.fields)

	s.fields = append(s.fields, dup)
	s.selectedFieldID = dup.ID
	return dup.Clone(), true
}

// Field looks up a field by id. The result is a deep copy.
func (s *Store) Field(id string) (Field, bool) {
	if idx := s.fieldIndex(id); idx >= 0 {
		return s.fields[idx].Clone(), true
	}
	return Field{}, false
}

// Fields returns deep copies of every field in creation order
func (s *Store) Fields() []Field {
	return cloneFields(s.fields)
}

// FieldsByDocument returns the fields placed on a document
func (s *Store) FieldsByDocument(documentID string) []Field {
	var out []Field
	for _, f := range s.fields {
		if f.DocumentID == documentID {
			out = append(out, f.Clone())
		}
	}
	return out
}

// FieldsByPage returns the fields placed on one page of a document
func (s *Store) FieldsByPage(documentID string, page int) []Field {
	var out []Field
	for _, f := range s.fields {
		if f.DocumentID == documentID && f.PageNumber == page {
			out = append(out, f.Clone())
		}
	}
	return out
}

func (s *Store) fieldIndex(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.fields, func(f Field) bool { return f.ID == id })
}

func (s *Store) removeFieldsWhere(match func(Field) bool) {
	s.fields = slices.DeleteFunc(s.fields, match)
	if s.selectedFieldID != "" && s.fieldIndex(s.selectedFieldID) < 0 {
		s.selectedFieldID = ""
	}
}

func cloneFields(in []Field) []Field {
	out := make([]Field, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}

// SettingsUpdate carries a partial settings change
type SettingsUpdate struct {
	EmailSubject      *string
	EmailBlurb        *string
	Status            *EnvelopeStatus
	ReminderEnabled   *bool
	ReminderDelay     *int
	ReminderFrequency *int
	ExpireEnabled     *bool
	ExpireAfter       *int
	ExpireWarn        *int
}

// SetSettings merges u into the envelope settings
func (s *Store) SetSettings(u SettingsUpdate) {
	st := &s.settings
	setIf(&st.EmailSubject, u.EmailSubject)
	setIf(&st.EmailBlurb, u.EmailBlurb)
	if u.Status != nil && (*u.Status == StatusCreated || *u.Status == StatusSent) {
		st.Status = *u.Status
	}
	setIf(&st.ReminderEnabled, u.ReminderEnabled)
	setIf(&st.ReminderDelay, u.ReminderDelay)
	setIf(&st.ReminderFrequency, u.ReminderFrequency)
	setIf(&st.ExpireEnabled, u.ExpireEnabled)
	setIf(&st.ExpireAfter, u.ExpireAfter)
	setIf(&st.ExpireWarn, u.ExpireWarn)
}

// Settings returns the envelope settings
func (s *Store) Settings() Settings {
	return s.settings
}

// Reset returns the store to its initial empty state and releases all
// document bytes.
func (s *Store) Reset() {
	s.binaries.Clear()
	s.settings = DefaultSettings()
	s.documents = nil
	s.recipients = nil
	s.fields = nil
	s.selectedFieldID = ""
	s.activeRecipientID = ""
	s.activeDocumentID = ""
	s.lastRecipientNumber = 0
	s.log.Debug("envelope reset")
}

// Snapshot returns a deep copy of the state for the serializer
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Settings:   s.settings,
		Documents:  slices.Clone(s.documents),
		Recipients: slices.Clone(s.recipients),
		Fields:     cloneFields(s.fields),
	}
}
