package core

import "strings"

// Resource represents a registered remote table with its metadata. It is
// fixed at registration time and shared read-only across calls.
type Resource struct {
	Name         string                  `json:"name"` // remote table name, e.g. "activity_c"
	DisplayName  string                  `json:"display_name"`
	PluralName   string                  `json:"plural_name"`
	Fields       []FieldInfo             `json:"fields"`
	IDField      string                  `json:"id_field"`
	Hidden       bool                    `json:"hidden"`
	ReadOnly     bool                    `json:"read_only"`
	FieldConfigs map[string]*FieldConfig `json:"-"`
	FieldOrder   []string                `json:"-"`            // Track order of field registration
	DefaultSort  SortField               `json:"default_sort"` // Default sorting configuration
	Actions      []CustomAction          `json:"-"`            // Custom actions for this resource
}

// ResourceMeta contains basic metadata for templates
type ResourceMeta struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	PluralName  string `json:"plural_name"`
	Hidden      bool   `json:"hidden"`
	ReadOnly    bool   `json:"read_only"`
}

// GetMeta returns basic metadata for templates
func (r *Resource) GetMeta() ResourceMeta {
	return ResourceMeta{
		Name:        r.Name,
		DisplayName: r.DisplayName,
		PluralName:  r.PluralName,
		Hidden:      r.Hidden,
		ReadOnly:    r.ReadOnly,
	}
}

// FieldByName returns the field metadata for the given remote field name
func (r *Resource) FieldByName(name string) (*FieldInfo, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i], true
		}
	}
	return nil, false
}

// ProjectionFields returns the names of all declared fields, identifier
// first, in registration order. This is the default read projection.
func (r *Resource) ProjectionFields() []string {
	fields := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		fields = append(fields, f.Name)
	}
	return fields
}

// WriteableFields returns the whitelist of fields permitted in create/update
// payloads. Identifier and server-managed fields are excluded.
func (r *Resource) WriteableFields() []string {
	var fields []string
	for _, f := range r.Fields {
		if f.Identifier || f.ReadOnly {
			continue
		}
		fields = append(fields, f.Name)
	}
	return fields
}

// SearchableFields returns the fields flagged for text search
func (r *Resource) SearchableFields() []FieldInfo {
	var fields []FieldInfo
	for _, f := range r.Fields {
		if f.Searchable {
			fields = append(fields, f)
		}
	}
	return fields
}

// IsWriteable reports whether the named field may appear in write payloads
func (r *Resource) IsWriteable(name string) bool {
	f, ok := r.FieldByName(name)
	if !ok {
		return false
	}
	return !f.Identifier && !f.ReadOnly
}

// FilterWriteable reduces a payload to the resource's writeable-field
// whitelist. Unknown and server-managed fields are silently dropped.
func (r *Resource) FilterWriteable(payload Record) Record {
	filtered := make(Record, len(payload))
	for name, value := range payload {
		if r.IsWriteable(name) {
			filtered[name] = value
		}
	}
	return filtered
}

// GetEffectiveDefaultSort returns the effective default sort for this
// resource following the precedence hierarchy: Explicit > CreatedOn > Id
func (r *Resource) GetEffectiveDefaultSort() SortField {
	// Priority 1: Use explicitly configured default sort
	if r.DefaultSort.Precedence == SortPrecedenceExplicit {
		return r.DefaultSort
	}

	// Priority 2: Check if the resource declares a creation timestamp
	for _, field := range r.Fields {
		name := strings.ToLower(field.Name)
		if name == "createdon" || name == "created_on" || name == "created_at" {
			return SortField{
				Field:      field.Name,
				Direction:  SortDesc,
				Precedence: SortPrecedenceAutoCreatedOn,
			}
		}
	}

	// Priority 3: Fallback to the identifier field
	return SortField{
		Field:      r.IDField,
		Direction:  SortAsc,
		Precedence: SortPrecedenceAutoID,
	}
}

// IsFieldSortable checks if a field can be sorted. Unknown fields are
// assumed sortable and left for the transport to reject.
func (r *Resource) IsFieldSortable(fieldName string) bool {
	f, ok := r.FieldByName(fieldName)
	if !ok {
		return true
	}
	// Tag lists have no meaningful remote ordering
	return f.Type != FieldTags
}
