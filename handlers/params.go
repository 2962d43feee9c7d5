package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"feed-api/pkg/config"
	"feed-api/query"
	"feed-api/types"

	"github.com/gin-gonic/gin"
)

type listQuery struct {
	types.CollectionParams
	Order     string `form:"order" binding:"omitempty,oneof=asc desc"`
	Status    string `form:"status"`
	Component string `form:"component"`
	Type      string `form:"type"`
	After     string `form:"after"`
	Scope     string `form:"scope" binding:"omitempty,oneof=just-me friends group"`
}

// idListParams are the query parameters holding sets of ids.
var idListParams = []string{"exclude", "include", "author", "primary_id", "secondary_id"}

// parseListParams validates the list query string and fills in defaults.
// Every failure is a validation error naming the offending parameters.
func parseListParams(c *gin.Context, catalogs config.Catalogs) (query.ListParams, error) {
	useParamNames()
	if err := checkIntegers(c, "page", "per_page"); err != nil {
		return query.ListParams{}, err
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return query.ListParams{}, validationError(err)
	}

	p := query.DefaultListParams()
	p.Context = q.ContextOrDefault()
	pg := q.Pagination()
	p.Page, p.PerPage = pg.Page, pg.PerPage
	if q.Order != "" {
		p.Order = q.Order
	}
	if q.Scope != "" {
		p.Scope = q.Scope
	}
	p.Search = sanitizeText(q.Search)
	p.Type = sanitizeKey(q.Type)

	invalid := map[string]string{}

	if raw := strings.TrimSpace(q.Status); raw != "" {
		status := sanitizeKey(raw)
		if status != query.StatusPublished && status != query.StatusSpam {
			invalid["status"] = "status is not one of published, spam."
		} else {
			p.Status = status
		}
	}
	if raw := strings.TrimSpace(q.Component); raw != "" {
		component := sanitizeKey(raw)
		if !catalogs.HasComponent(component) {
			invalid["component"] = fmt.Sprintf("component is not one of %s.", strings.Join(catalogs.Components, ", "))
		} else {
			p.Component = component
		}
	}
	if raw := strings.TrimSpace(q.After); raw != "" {
		after, err := parseDateTime(raw)
		if err != nil {
			invalid["after"] = "Invalid date."
		} else {
			p.After = &after
		}
	}

	lists := make(map[string][]int, len(idListParams))
	for _, name := range idListParams {
		ids, err := idList(c, name)
		if err != nil {
			invalid[name] = err.Error()
			continue
		}
		lists[name] = ids
	}
	if len(invalid) > 0 {
		return query.ListParams{}, types.Validation("Invalid parameter(s): "+joinKeys(invalid), invalid)
	}

	p.Exclude = lists["exclude"]
	p.Include = lists["include"]
	p.Author = lists["author"]
	p.PrimaryID = lists["primary_id"]
	p.SecondaryID = lists["secondary_id"]
	return p, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func parseDateTime(raw string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		t, perr := time.Parse(layout, raw)
		if perr == nil {
			return t, nil
		}
		err = perr
	}
	return time.Time{}, err
}

// idList collects ids from repeated name and name[] keys, each of which may
// itself be a comma or space separated list. Duplicates are dropped.
func idList(c *gin.Context, name string) ([]int, error) {
	raw := append(c.QueryArray(name), c.QueryArray(name+"[]")...)
	if len(raw) == 0 {
		return nil, nil
	}
	seen := map[int]bool{}
	var ids []int
	for _, value := range raw {
		for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := strconv.Atoi(part)
			if err != nil || id < 0 {
				return nil, fmt.Errorf("%s must be a list of integers", name)
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

var (
	nonKeyChars = regexp.MustCompile(`[^a-z0-9_\-]`)
	htmlTags    = regexp.MustCompile(`<[^>]*>`)
)

// sanitizeKey lowercases s and strips everything outside [a-z0-9_-].
func sanitizeKey(s string) string {
	return nonKeyChars.ReplaceAllString(strings.ToLower(s), "")
}

// sanitizeText strips markup and collapses runs of whitespace.
func sanitizeText(s string) string {
	return strings.Join(strings.Fields(htmlTags.ReplaceAllString(s, "")), " ")
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, types.Validation("Invalid parameter(s): "+name,
			map[string]string{name: name + " is not a positive integer."})
	}
	return id, nil
}
