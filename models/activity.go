package models

import "time"

// CommentType is the activity type of replies; their ItemID is the parent activity.
const CommentType = "activity_comment"

// MetaWallInitiator records who started a wall post.
const MetaWallInitiator = "buddyboss_wall_initiator"

type Activity struct {
	ID              int
	UserID          int
	DisplayName     string
	Component       string
	Type            string
	Action          string
	Content         string
	PrimaryLink     string
	ItemID          int
	SecondaryItemID int
	// Zero when the row carries no recorded date.
	DateRecorded time.Time
	HideSitewide bool
	IsSpam       bool
	Meta         map[string]string
}

func (a *Activity) IsComment() bool { return a.Type == CommentType }

// ActivityPage is one page of a list query. Total is only meaningful when
// Counted is true.
type ActivityPage struct {
	Items   []Activity
	Total   int
	Counted bool
}

// ActivityDraft carries the writable fields of a new activity. Nil fields are
// left to the column defaults.
type ActivityDraft struct {
	UserID          int
	Component       *string
	Type            *string
	Content         *string
	ItemID          *int
	SecondaryItemID *int
}

type ActivityMeta struct {
	Key   string
	Value string
}

// VisibilityGrant scopes a new activity to a visibility option on behalf of a user.
type VisibilityGrant struct {
	Scope  string
	UserID int
}

// CreateEffects are the writes that accompany an insert.
type CreateEffects struct {
	Visibility *VisibilityGrant
	Meta       []ActivityMeta
}

func (e CreateEffects) Empty() bool { return e.Visibility == nil && len(e.Meta) == 0 }
