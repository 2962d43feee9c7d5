package query

import "time"

const (
	ScopeJustMe  = "just-me"
	ScopeFriends = "friends"
	ScopeGroup   = "group"

	StatusPublished = "published"
	StatusSpam      = "spam"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	// GroupsComponent is the component whose hidden items members may see.
	GroupsComponent = "groups"
)

// ListParams is the validated, defaulted parameter set of one list request.
type ListParams struct {
	Context     string
	Page        int
	PerPage     int
	Order       string
	Exclude     []int
	Include     []int
	Author      []int
	Status      string
	Component   string
	Type        string
	Search      string
	After       *time.Time
	PrimaryID   []int
	SecondaryID []int
	Scope       string
}

// DefaultListParams returns the parameter set of a request without a query string.
func DefaultListParams() ListParams {
	return ListParams{
		Context: "view",
		Page:    1,
		PerPage: 20,
		Order:   OrderDesc,
		Status:  StatusPublished,
		Scope:   ScopeJustMe,
	}
}
