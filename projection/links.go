package projection

import (
	"strconv"
	"strings"
)

// Link is a single hypermedia reference.
type Link struct {
	Href string `json:"href"`
}

// Links maps a relation name to its targets.
type Links map[string][]Link

// LinkBuilder builds absolute URLs for a collection mounted at
// {BaseURL}/{Namespace}/{Resource}/.
type LinkBuilder struct {
	BaseURL   string
	Namespace string
	Resource  string
	UsersURL  string
}

func (b LinkBuilder) CollectionURL() string {
	parts := []string{strings.TrimRight(b.BaseURL, "/")}
	if ns := strings.Trim(b.Namespace, "/"); ns != "" {
		parts = append(parts, ns)
	}
	parts = append(parts, strings.Trim(b.Resource, "/"))
	return strings.Join(parts, "/") + "/"
}

func (b LinkBuilder) ItemURL(id int) string {
	return b.CollectionURL() + strconv.Itoa(id)
}

func (b LinkBuilder) AuthorURL(userID int) string {
	return strings.TrimRight(b.UsersURL, "/") + "/" + strconv.Itoa(userID)
}
