package core

// FieldType describes how a remote field is typed and edited
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldDateTime FieldType = "datetime"
	FieldBoolean  FieldType = "boolean"
	FieldPicklist FieldType = "picklist" // one of a fixed set of choices
	FieldTags     FieldType = "tags"     // comma-joined tag list
)

// FieldInfo represents metadata about one field of a remote resource
type FieldInfo struct {
	Name             string    `json:"name"`  // remote field name, e.g. "subject_c"
	Label            string    `json:"label"` // human label, e.g. "Subject"
	Type             FieldType `json:"type"`
	Required         bool      `json:"required"`
	ReadOnly         bool      `json:"read_only"` // server-managed; never sent in write payloads
	Searchable       bool      `json:"searchable"`
	Identifier       bool      `json:"identifier"`
	Choices          []string  `json:"choices,omitempty"`
	DefaultVal       any       `json:"default_value,omitempty"`
	MaxPreviewLength int       `json:"max_preview_length,omitempty"`
}

// FieldConfig holds configuration collected by a FieldBuilder before it is
// applied to a FieldInfo
type FieldConfig struct {
	Label            string
	Type             FieldType
	Required         bool
	ReadOnly         bool
	Searchable       bool
	Choices          []string
	DefaultVal       any
	MaxPreviewLength int
}

// Apply applies the configuration to a FieldInfo
func (fc *FieldConfig) Apply(info *FieldInfo) {
	if fc.Label != "" {
		info.Label = fc.Label
	}
	if fc.Type != "" {
		info.Type = fc.Type
	}
	info.Required = fc.Required
	info.ReadOnly = fc.ReadOnly
	info.Searchable = fc.Searchable
	if len(fc.Choices) > 0 {
		info.Choices = fc.Choices
	}
	if fc.DefaultVal != nil {
		info.DefaultVal = fc.DefaultVal
	}
	if fc.MaxPreviewLength > 0 {
		info.MaxPreviewLength = fc.MaxPreviewLength
	}
}

// FieldBuilder provides fluent API for configuring fields
type FieldBuilder struct {
	config *FieldConfig
}

// NewFieldBuilder creates a new FieldBuilder
func NewFieldBuilder() *FieldBuilder {
	return &FieldBuilder{
		config: &FieldConfig{},
	}
}

// Label sets the display label for the field
func (fb *FieldBuilder) Label(label string) *FieldBuilder {
	fb.config.Label = label
	return fb
}

// Type sets the field type
func (fb *FieldBuilder) Type(t FieldType) *FieldBuilder {
	fb.config.Type = t
	return fb
}

// Required marks the field as required
func (fb *FieldBuilder) Required(required bool) *FieldBuilder {
	fb.config.Required = required
	return fb
}

// ReadOnly marks the field as server-managed; it is projected in reads but
// never included in write payloads
func (fb *FieldBuilder) ReadOnly(readOnly bool) *FieldBuilder {
	fb.config.ReadOnly = readOnly
	return fb
}

// Searchable marks the field as searchable
func (fb *FieldBuilder) Searchable(searchable bool) *FieldBuilder {
	fb.config.Searchable = searchable
	return fb
}

// Choices sets available choices for picklist fields
func (fb *FieldBuilder) Choices(choices ...string) *FieldBuilder {
	fb.config.Choices = choices
	if fb.config.Type == "" {
		fb.config.Type = FieldPicklist
	}
	return fb
}

// Default sets the default value for the field
func (fb *FieldBuilder) Default(value any) *FieldBuilder {
	fb.config.DefaultVal = value
	return fb
}

// MaxPreviewLength sets the maximum length for field preview in list views
func (fb *FieldBuilder) MaxPreviewLength(length int) *FieldBuilder {
	fb.config.MaxPreviewLength = length
	return fb
}

// Build returns the final FieldConfig
func (fb *FieldBuilder) Build() *FieldConfig {
	return fb.config
}
