package types

import "feed-api/models"

// ScopeGroup narrows the tag catalog to the tags usable inside a group.
const ScopeGroup = "group"

var TagTypes = []models.TagType{
	{Type: "tag_zaji", Name: "杂记"},
	{Type: "tag_origin", Name: "原创"},
	{Type: "tag_food", Name: "美食"},
	{Type: "tag_trip", Name: "旅游"},
	{Type: "tag_finance", Name: "财务"},
	{Type: "tag_others", Name: "其他"},
}

var GroupTagTypes = []models.TagType{
	{Type: "tag_zaji", Name: "杂记"},
}

// TagCatalog returns a copy of the catalog for scope, in declared order.
func TagCatalog(scope string) []models.TagType {
	src := TagTypes
	if scope == ScopeGroup {
		src = GroupTagTypes
	}
	out := make([]models.TagType, len(src))
	copy(out, src)
	return out
}
