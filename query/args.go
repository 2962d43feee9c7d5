package query

import "time"

// SpamFilter selects records by their spam flag.
type SpamFilter string

const (
	HamOnly  SpamFilter = "ham_only"
	SpamOnly SpamFilter = "spam_only"
)

type Fields string

const (
	FieldsAll Fields = "all"
	FieldsIDs Fields = "ids"
)

const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Args is the store-facing form of a list request.
type Args struct {
	Exclude      []int
	In           []int
	Page         int
	PerPage      int
	SecondaryIDs []int
	SearchTerms  string
	Sort         string
	Spam         SpamFilter
	Scope        string
	// ScopeUserID is the member the scope is resolved for. Zero disables the scope.
	ScopeUserID     int
	Since           *time.Time
	Filter          Filter
	CountTotal      bool
	ShowHidden      bool
	UpdateMetaCache bool
	Fields          Fields
}

// Offset is the number of rows skipped before the requested page.
func (a Args) Offset() int {
	if a.Page < 1 || a.PerPage < 1 {
		return 0
	}
	return (a.Page - 1) * a.PerPage
}

// ByID builds the arguments of a single-record lookup. The request filters
// and scope do not apply, but spam and sitewide-hidden records stay excluded.
func ByID(id int) Args {
	return Args{
		In:              []int{id},
		Page:            1,
		PerPage:         1,
		Sort:            SortDesc,
		Spam:            HamOnly,
		UpdateMetaCache: true,
		Fields:          FieldsAll,
	}
}
