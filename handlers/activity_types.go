package handlers

import (
	"net/http"

	"feed-api/pkg/i18n"
	"feed-api/projection"
	"feed-api/query"
	"feed-api/types"

	"github.com/gin-gonic/gin"
)

type tagTypesQuery struct {
	types.CollectionParams
	Scope string `form:"scope" binding:"omitempty,oneof=just-me friends group"`
}

// TagTypesHandler serves the activity tag catalog.
type TagTypesHandler struct {
	loc        i18n.Localizer
	namespace  string
	schema     projection.Schema
	permission Permission
}

func NewTagTypesHandler(loc i18n.Localizer, namespace string) *TagTypesHandler {
	if loc == nil {
		loc = i18n.Catalog{}
	}
	return &TagTypesHandler{
		loc:        loc,
		namespace:  namespace,
		schema:     projection.TagTypeSchema(),
		permission: AllowAll,
	}
}

func (h *TagTypesHandler) WithPermission(p Permission) *TagTypesHandler {
	h.permission = p
	return h
}

// GetTagTypes lists the tags usable in the requested scope. Only the group
// scope narrows the catalog.
func (h *TagTypesHandler) GetTagTypes(c *gin.Context) {
	useParamNames()
	if err := checkIntegers(c, "page", "per_page"); err != nil {
		respondError(c, err)
		return
	}
	var q tagTypesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, validationError(err))
		return
	}
	if err := allow(h.permission, c); err != nil {
		respondError(c, err)
		return
	}

	scope := sanitizeText(q.Scope)
	if scope == "" {
		scope = query.ScopeJustMe
	}
	reqContext := q.ContextOrDefault()

	catalog := types.TagCatalog(scope)
	out := make([]projection.Item, 0, len(catalog))
	for _, t := range catalog {
		item := projection.Item{"type": t.Type, "name": h.loc.T(t.Name)}
		out = append(out, h.schema.Filter(item, reqContext))
	}
	c.JSON(http.StatusOK, out)
}

func (h *TagTypesHandler) DescribeTagTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"namespace": h.namespace,
		"methods":   []string{http.MethodGet},
		"schema":    h.schema.Document(h.loc),
	})
}
