package projection

import (
	"context"
	"time"

	"feed-api/models"
)

// AvatarResolver returns the avatar URL of a member.
type AvatarResolver interface {
	AvatarURL(ctx context.Context, userID int) (string, error)
}

// Projector maps stored activities to their public representation.
type Projector struct {
	Avatars AvatarResolver
	Labels  TypeLabels
	Links   LinkBuilder
	Schema  Schema
}

// Project builds the public form of a for the requested context. The only
// failure source is the avatar resolver.
func (p *Projector) Project(ctx context.Context, a *models.Activity, reqContext string) (Item, error) {
	avatar := ""
	if p.Avatars != nil {
		url, err := p.Avatars.AvatarURL(ctx, a.UserID)
		if err != nil {
			return nil, err
		}
		avatar = url
	}

	parent := 0
	if a.IsComment() {
		parent = a.ItemID
	}
	status := "published"
	if a.IsSpam {
		status = "spam"
	}

	item := Item{
		"author_id":             a.UserID,
		"author_name":           a.DisplayName,
		"avatar_url":            avatar,
		"component":             a.Component,
		"content":               a.Content,
		"date":                  FormatDate(a.DateRecorded),
		"id":                    a.ID,
		"link":                  a.PrimaryLink,
		"parent":                parent,
		"prime_association":     a.ItemID,
		"secondary_association": a.SecondaryItemID,
		"status":                status,
		"title":                 a.Action,
		"type":                  p.Labels.Label(a.Type),
	}

	if reqContext == "" {
		reqContext = ContextView
	}
	out := p.Schema.Filter(item, reqContext)
	out["_links"] = p.links(a)
	return out, nil
}

func (p *Projector) links(a *models.Activity) Links {
	links := Links{
		"self":       {{Href: p.Links.ItemURL(a.ID)}},
		"collection": {{Href: p.Links.CollectionURL()}},
		"author":     {{Href: p.Links.AuthorURL(a.UserID)}},
	}
	if a.IsComment() {
		links["up"] = []Link{{Href: p.Links.ItemURL(a.ItemID)}}
	}
	return links
}

// FormatDate renders t as UTC RFC3339, or nil for the zero time.
func FormatDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
