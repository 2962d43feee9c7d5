package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"feed-api/middleware"
	"feed-api/models"
	"feed-api/pkg/config"
	"feed-api/pkg/events"
	"feed-api/pkg/i18n"
	"feed-api/pkg/notify"
	"feed-api/projection"
	"feed-api/query"
	"feed-api/types"

	"github.com/gin-gonic/gin"
)

// ActivityStore is the persistence the activity endpoints need.
type ActivityStore interface {
	QueryActivities(ctx context.Context, args query.Args) (*models.ActivityPage, error)
	CreateActivity(ctx context.Context, draft models.ActivityDraft, effects models.CreateEffects) (int, error)
}

type ActivitiesHandler struct {
	store       ActivityStore
	groups      query.GroupMembership
	moderation  query.ModerationChecker
	projector   *projection.Projector
	catalogs    config.Catalogs
	loc         i18n.Localizer
	notifier    notify.Notifier
	permissions Permissions
	namespace   string
}

func NewActivitiesHandler(
	store ActivityStore,
	groups query.GroupMembership,
	moderation query.ModerationChecker,
	projector *projection.Projector,
	catalogs config.Catalogs,
	loc i18n.Localizer,
) *ActivitiesHandler {
	if loc == nil {
		loc = i18n.Catalog{}
	}
	return &ActivitiesHandler{
		store:       store,
		groups:      groups,
		moderation:  moderation,
		projector:   projector,
		catalogs:    catalogs,
		loc:         loc,
		notifier:    notify.Nop{},
		permissions: DefaultPermissions(),
		namespace:   projector.Links.Namespace,
	}
}

func (h *ActivitiesHandler) WithNotifier(n notify.Notifier) *ActivitiesHandler {
	if n != nil {
		h.notifier = n
	}
	return h
}

func (h *ActivitiesHandler) WithPermissions(p Permissions) *ActivitiesHandler {
	h.permissions = p
	return h
}

// GetActivities lists activities matching the query string.
func (h *ActivitiesHandler) GetActivities(c *gin.Context) {
	params, err := parseListParams(c, h.catalogs)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := allow(h.permissions.List, c); err != nil {
		respondError(c, err)
		return
	}

	viewer := query.Viewer{
		UserID:     c.GetInt(middleware.UserIDKey),
		Groups:     h.groups,
		Moderation: h.moderation,
	}
	args, err := query.Translate(c.Request.Context(), params, viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.store.QueryActivities(c.Request.Context(), args)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.projectAll(c.Request.Context(), page.Items, params.Context)
	if err != nil {
		respondError(c, err)
		return
	}
	// TODO: expose page.Total (X-Total-Count) once clients agree on the header.
	c.JSON(http.StatusOK, out)
}

// GetActivity returns a single activity wrapped in a one-element array.
func (h *ActivitiesHandler) GetActivity(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var q types.CollectionParams
	useParamNames()
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, validationError(err))
		return
	}
	if err := allow(h.permissions.Get, c); err != nil {
		respondError(c, err)
		return
	}

	page, err := h.store.QueryActivities(c.Request.Context(), query.ByID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(page.Items) == 0 {
		respondError(c, types.NotFound("Invalid activity id."))
		return
	}
	out, err := h.projectAll(c.Request.Context(), page.Items[:1], q.ContextOrDefault())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type createActivityRequest struct {
	ID                   json.RawMessage `json:"id"`
	Component            *string         `json:"component"`
	Type                 *string         `json:"type"`
	Content              *string         `json:"content"`
	PrimeAssociation     *int            `json:"prime_association"`
	SecondaryAssociation *int            `json:"secondary_association"`
	Visibility           *string         `json:"visibility"`
}

// CreateActivity inserts a new activity and returns its id.
func (h *ActivitiesHandler) CreateActivity(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, validationError(err))
		return
	}
	if hasID(req.ID) {
		respondError(c, types.Conflict("Cannot create existing activity."))
		return
	}
	if err := h.validateCreate(req); err != nil {
		respondError(c, err)
		return
	}
	if err := allow(h.permissions.Create, c); err != nil {
		respondError(c, err)
		return
	}

	userID := c.GetInt(middleware.UserIDKey)
	draft := models.ActivityDraft{
		UserID:          userID,
		Component:       req.Component,
		Type:            req.Type,
		Content:         req.Content,
		ItemID:          req.PrimeAssociation,
		SecondaryItemID: req.SecondaryAssociation,
	}

	var effects models.CreateEffects
	if req.Type != nil && *req.Type != models.CommentType {
		if req.Visibility != nil {
			effects.Visibility = &models.VisibilityGrant{Scope: *req.Visibility, UserID: userID}
		}
		effects.Meta = append(effects.Meta, models.ActivityMeta{
			Key:   models.MetaWallInitiator,
			Value: strconv.Itoa(userID),
		})
	}

	id, err := h.store.CreateActivity(c.Request.Context(), draft, effects)
	if err != nil {
		respondError(c, err)
		return
	}

	if userID > 0 {
		h.notifier.NotifyUser(userID, events.NewActivityCreated(id, deref(req.Component), deref(req.Type)))
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ActivitiesHandler) validateCreate(req createActivityRequest) error {
	invalid := map[string]string{}
	if req.Component != nil && !h.catalogs.HasComponent(*req.Component) {
		invalid["component"] = "component is not one of " + strings.Join(h.catalogs.Components, ", ") + "."
	}
	if req.Visibility != nil && !h.catalogs.HasVisibility(*req.Visibility) {
		invalid["visibility"] = "visibility is not one of " + strings.Join(h.catalogs.Visibility, ", ") + "."
	}
	if len(invalid) > 0 {
		return types.Validation("Invalid parameter(s): "+joinKeys(invalid), invalid)
	}
	return nil
}

// DescribeActivities answers OPTIONS with the route's methods and item schema.
func (h *ActivitiesHandler) DescribeActivities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"namespace": h.namespace,
		"methods":   []string{http.MethodGet, http.MethodPost},
		"schema":    h.projector.Schema.Document(h.loc),
	})
}

func (h *ActivitiesHandler) projectAll(ctx context.Context, items []models.Activity, reqContext string) ([]projection.Item, error) {
	out := make([]projection.Item, 0, len(items))
	for i := range items {
		item, err := h.projector.Project(ctx, &items[i], reqContext)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// hasID reports whether the request carried a non-empty id. null, 0, "",
// "0" and false count as empty.
func hasID(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "0", `""`, `"0"`, "false":
		return false
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
