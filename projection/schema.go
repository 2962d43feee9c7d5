package projection

import "feed-api/pkg/i18n"

const (
	ContextView = "view"
	ContextEdit = "edit"
)

// Item is a projected resource, keyed by public field name.
type Item map[string]interface{}

type Property struct {
	Name        string
	Type        string
	Format      string
	Description string
	Context     []string
	Enum        []string
	ReadOnly    bool
}

func (p Property) inContext(ctx string) bool {
	for _, c := range p.Context {
		if c == ctx {
			return true
		}
	}
	return false
}

// Schema describes a resource's public fields.
type Schema struct {
	Title      string
	Properties []Property
}

func (s Schema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Filter returns a copy of item without the declared fields that are not
// valid in ctx. Keys the schema does not declare are kept.
func (s Schema) Filter(item Item, ctx string) Item {
	out := make(Item, len(item))
	for k, v := range item {
		if p, ok := s.Property(k); ok && !p.inContext(ctx) {
			continue
		}
		out[k] = v
	}
	return out
}

// Document renders the schema as a JSON schema object with localized descriptions.
func (s Schema) Document(loc i18n.Localizer) map[string]interface{} {
	props := make(map[string]interface{}, len(s.Properties))
	for _, p := range s.Properties {
		prop := map[string]interface{}{
			"description": loc.T(p.Description),
			"type":        p.Type,
			"context":     p.Context,
		}
		if p.Format != "" {
			prop["format"] = p.Format
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.ReadOnly {
			prop["readonly"] = true
		}
		props[p.Name] = prop
	}
	return map[string]interface{}{
		"$schema":    "http://json-schema.org/draft-04/schema#",
		"title":      s.Title,
		"type":       "object",
		"properties": props,
	}
}

var (
	viewEdit = []string{ContextView, ContextEdit}
	editOnly = []string{ContextEdit}
)

// ActivitySchema describes the activity resource. components and visibility
// become the enums of the matching fields.
func ActivitySchema(components, visibility []string) Schema {
	return Schema{
		Title: "activity",
		Properties: []Property{
			{Name: "id", Type: "integer", Description: "A unique alphanumeric ID for the object.", Context: viewEdit, ReadOnly: true},
			{Name: "prime_association", Type: "integer", Description: "The ID of some other object primarily associated with this one.", Context: viewEdit},
			{Name: "secondary_association", Type: "integer", Description: "The ID of some other object also associated with this one.", Context: viewEdit},
			{Name: "author", Type: "integer", Description: "The ID for the creator of the object.", Context: viewEdit},
			{Name: "link", Type: "string", Format: "uri", Description: "The permalink to this object on the site.", Context: viewEdit},
			{Name: "component", Type: "string", Description: "The active component the object relates to.", Context: viewEdit, Enum: components},
			{Name: "type", Type: "string", Description: "The activity type of the object.", Context: viewEdit},
			{Name: "title", Type: "string", Description: "HTML title of the object.", Context: viewEdit},
			{Name: "content", Type: "string", Description: "HTML content of the object.", Context: viewEdit},
			{Name: "date", Type: "string", Format: "date-time", Description: "The date the object was published, in the site's timezone.", Context: viewEdit},
			{Name: "status", Type: "string", Description: "Whether the object has been marked as spam or not.", Context: viewEdit, Enum: []string{"published", "spam"}},
			{Name: "parent", Type: "integer", Description: "The ID of the parent of the object.", Context: viewEdit},
			{Name: "visibility", Type: "string", Description: "Who may see the object.", Context: editOnly, Enum: visibility},
		},
	}
}

// TagTypeSchema describes the activity tag catalog entries.
func TagTypeSchema() Schema {
	return Schema{
		Title: "types",
		Properties: []Property{
			{Name: "type", Type: "string", Description: "Tag name.", Context: viewEdit},
			{Name: "name", Type: "string", Description: "Display name.", Context: viewEdit},
		},
	}
}
