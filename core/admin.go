package core

import (
	"strings"

	"github.com/apper-canvas/studyflow-beta-ether/middleware/auth"

	"github.com/iancoleman/strcase"
)

// customFieldSuffix marks developer-defined fields on hosted tables,
// e.g. "subject_c". It is stripped when deriving display labels.
const customFieldSuffix = "_c"

// Admin represents the main admin instance: the registry of remote
// resources and the clients bound to them.
type Admin struct {
	transport     Transport
	notifier      Notifier
	resources     map[string]*Resource
	clients       map[string]*Client
	resourceOrder []string // Track registration order for consistent display
	config        *Config
}

// Config holds configuration for the Admin instance
type Config struct {
	BasePath     string           `json:"base_path"`
	Title        string           `json:"title"`
	ItemsPerPage int              `json:"items_per_page"`
	Auth         *auth.AuthConfig `json:"-"`
}

// New creates a new Admin instance with the given transport, notifier and
// auth configuration
func New(transport Transport, notifier Notifier, authConfig auth.AuthConfig) *Admin {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Admin{
		transport:     transport,
		notifier:      notifier,
		resources:     make(map[string]*Resource),
		clients:       make(map[string]*Client),
		resourceOrder: make([]string, 0),
		config: &Config{
			BasePath:     "/admin",
			Title:        "StudyFlow Admin",
			ItemsPerPage: DefaultPageSize,
			Auth:         &authConfig,
		},
	}
}

// RegisterResource registers a remote table with the admin panel. The
// identifier field is declared implicitly; all other fields are declared
// explicitly through the returned builder, since the remote schema cannot
// be reflected over.
func (a *Admin) RegisterResource(tableName string) *ResourceBuilder {
	if tableName == "" {
		panic("RegisterResource expects a remote table name")
	}

	displayName := generateDisplayName(tableName)
	resource := &Resource{
		Name:        tableName,
		DisplayName: displayName,
		PluralName:  pluralize(displayName),
		IDField:     IDFieldName,
		Fields: []FieldInfo{{
			Name:       IDFieldName,
			Label:      "ID",
			Type:       FieldNumber,
			ReadOnly:   true,
			Identifier: true,
		}},
		FieldConfigs: make(map[string]*FieldConfig),
		FieldOrder:   []string{},
	}

	a.resources[tableName] = resource
	a.clients[tableName] = NewClient(resource, a.transport, a.notifier)
	a.resourceOrder = append(a.resourceOrder, tableName)

	return &ResourceBuilder{
		admin:    a,
		resource: resource,
	}
}

// GetResource retrieves a registered resource by table name
func (a *Admin) GetResource(name string) (*Resource, bool) {
	resource, exists := a.resources[name]
	return resource, exists
}

// Client retrieves the client bound to a registered resource
func (a *Admin) Client(name string) (*Client, bool) {
	client, exists := a.clients[name]
	return client, exists
}

// GetResources returns all registered resources in registration order
func (a *Admin) GetResources() []*Resource {
	ordered := make([]*Resource, 0, len(a.resourceOrder))
	for _, name := range a.resourceOrder {
		if resource, exists := a.resources[name]; exists {
			ordered = append(ordered, resource)
		}
	}
	return ordered
}

// GetConfig returns the configuration
func (a *Admin) GetConfig() *Config {
	return a.config
}

// GetAuth returns the authentication configuration
func (a *Admin) GetAuth() *auth.AuthConfig {
	return a.config.Auth
}

// ResourceBuilder provides fluent API for resource configuration
type ResourceBuilder struct {
	admin    *Admin
	resource *Resource
}

// WithName sets a custom display name for the resource
func (rb *ResourceBuilder) WithName(name string) *ResourceBuilder {
	rb.resource.DisplayName = name
	rb.resource.PluralName = pluralize(name)
	return rb
}

// WithPluralName sets a custom plural name for the resource
func (rb *ResourceBuilder) WithPluralName(name string) *ResourceBuilder {
	rb.resource.PluralName = name
	return rb
}

// WithField declares a remote field and configures it
func (rb *ResourceBuilder) WithField(fieldName string, config func(*FieldBuilder)) *ResourceBuilder {
	builder := NewFieldBuilder()
	if config != nil {
		config(builder)
	}
	fc := builder.Build()
	rb.resource.FieldConfigs[fieldName] = fc

	info := FieldInfo{
		Name:  fieldName,
		Label: generateFieldLabel(fieldName),
		Type:  FieldText,
	}
	fc.Apply(&info)

	rb.resource.Fields = append(rb.resource.Fields, info)
	rb.resource.FieldOrder = append(rb.resource.FieldOrder, fieldName)
	return rb
}

// Hidden sets whether the resource should be hidden from the admin panel
func (rb *ResourceBuilder) Hidden(hidden bool) *ResourceBuilder {
	rb.resource.Hidden = hidden
	return rb
}

// ReadOnly sets whether the resource should be read-only
func (rb *ResourceBuilder) ReadOnly(readOnly bool) *ResourceBuilder {
	rb.resource.ReadOnly = readOnly
	return rb
}

// WithDefaultSort sets the default sorting for the resource
func (rb *ResourceBuilder) WithDefaultSort(field string, direction SortDirection) *ResourceBuilder {
	rb.resource.DefaultSort = SortField{
		Field:      field,
		Direction:  direction,
		Precedence: SortPrecedenceExplicit,
	}
	return rb
}

// WithAction registers a custom action for this resource
func (rb *ResourceBuilder) WithAction(id, title string, handler ActionHandler) *ResourceBuilder {
	rb.resource.Actions = append(rb.resource.Actions, CustomAction{
		ID:      id,
		Title:   title,
		Handler: handler,
	})
	return rb
}

// generateDisplayName derives a human name from a remote table name,
// e.g. "activity_c" -> "Activity", "course_section_c" -> "Course Section"
func generateDisplayName(tableName string) string {
	return humanize(strings.TrimSuffix(tableName, customFieldSuffix))
}

// generateFieldLabel derives a human label from a remote field name,
// e.g. "due_date_c" -> "Due Date", "CreatedOn" -> "Created On"
func generateFieldLabel(fieldName string) string {
	return humanize(strings.TrimSuffix(fieldName, customFieldSuffix))
}

// humanize converts snake_case or CamelCase identifiers to spaced,
// capitalized words
func humanize(name string) string {
	words := strings.Split(strcase.ToSnake(name), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// Basic pluralization - can be enhanced later
func pluralize(word string) string {
	if strings.HasSuffix(word, "y") {
		return strings.TrimSuffix(word, "y") + "ies"
	}
	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "z") || strings.HasSuffix(word, "ch") ||
		strings.HasSuffix(word, "sh") {
		return word + "es"
	}
	return word + "s"
}
