package query

import "context"

type GroupMembership interface {
	IsGroupMember(ctx context.Context, userID, groupID int) (bool, error)
}

type ModerationChecker interface {
	HasModerationCapability(ctx context.Context, userID int) (bool, error)
}

// Viewer is the acting identity of a request together with the lookups used
// to decide what it may see. UserID 0 is an anonymous visitor.
type Viewer struct {
	UserID     int
	Groups     GroupMembership
	Moderation ModerationChecker
}

// Translate turns validated list parameters into store arguments. Lookup
// errors are returned unchanged.
func Translate(ctx context.Context, p ListParams, v Viewer) (Args, error) {
	args := Args{
		Exclude:         p.Exclude,
		In:              p.Include,
		Page:            p.Page,
		PerPage:         p.PerPage,
		SecondaryIDs:    p.SecondaryID,
		SearchTerms:     p.Search,
		Sort:            SortDesc,
		Spam:            HamOnly,
		Scope:           p.Scope,
		ScopeUserID:     v.UserID,
		CountTotal:      true,
		UpdateMetaCache: true,
		Fields:          FieldsAll,
	}
	if p.Order == OrderAsc {
		args.Sort = SortAsc
	}
	if p.Status == StatusSpam {
		args.Spam = SpamOnly
	}
	if len(p.Include) > 0 {
		args.CountTotal = false
	}
	if p.Component != "" {
		args.Filter.SetObject(p.Component)
	}
	if p.Type != "" {
		args.Filter.SetAction(p.Type)
	}
	if p.After != nil {
		since := *p.After
		args.Since = &since
	}

	if p.Component == GroupsComponent {
		show, err := v.canSeeHidden(ctx, p.PrimaryID)
		if err != nil {
			return Args{}, err
		}
		args.ShowHidden = show
	}

	if len(p.Author) > 0 {
		args.Filter.SetUserIDs(p.Author)
		if len(p.Author) == 1 {
			args.ScopeUserID = p.Author[0]
		}
	}
	if len(p.PrimaryID) > 0 {
		args.Filter.SetPrimaryIDs(p.PrimaryID)
	}
	return args, nil
}

// canSeeHidden reports whether the viewer belongs to every listed group or
// moderates the site.
func (v Viewer) canSeeHidden(ctx context.Context, groupIDs []int) (bool, error) {
	if v.UserID == 0 {
		return false, nil
	}
	if len(groupIDs) > 0 && v.Groups != nil {
		member := true
		for _, gid := range groupIDs {
			ok, err := v.Groups.IsGroupMember(ctx, v.UserID, gid)
			if err != nil {
				return false, err
			}
			if !ok {
				member = false
				break
			}
		}
		if member {
			return true, nil
		}
	}
	if v.Moderation == nil {
		return false, nil
	}
	return v.Moderation.HasModerationCapability(ctx, v.UserID)
}
