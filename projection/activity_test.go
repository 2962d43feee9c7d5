package projection

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"feed-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type templateAvatars struct{ err error }

func (a templateAvatars) AvatarURL(_ context.Context, userID int) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return fmt.Sprintf("https://cdn.example.com/avatars/%d.png", userID), nil
}

func newProjector() *Projector {
	return &Projector{
		Avatars: templateAvatars{},
		Labels:  TypeLabels{"activity_update": "动态"},
		Links: LinkBuilder{
			BaseURL:   "https://feed.example.com",
			Namespace: "v1",
			Resource:  "activity",
			UsersURL:  "https://feed.example.com/v1/users",
		},
		Schema: ActivitySchema([]string{"activity", "groups"}, []string{"public"}),
	}
}

func sampleActivity() *models.Activity {
	return &models.Activity{
		ID:              7,
		UserID:          3,
		DisplayName:     "Ada",
		Component:       "activity",
		Type:            "activity_update",
		Action:          "Ada posted an update",
		Content:         "<p>hello</p>",
		PrimaryLink:     "https://feed.example.com/members/ada/",
		ItemID:          12,
		SecondaryItemID: 4,
		DateRecorded:    time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func TestProjectFields(t *testing.T) {
	item, err := newProjector().Project(context.Background(), sampleActivity(), ContextView)
	require.NoError(t, err)

	assert.Equal(t, 3, item["author_id"])
	assert.Equal(t, "Ada", item["author_name"])
	assert.Equal(t, "https://cdn.example.com/avatars/3.png", item["avatar_url"])
	assert.Equal(t, "activity", item["component"])
	assert.Equal(t, "<p>hello</p>", item["content"])
	assert.Equal(t, "2024-05-06T07:08:09Z", item["date"])
	assert.Equal(t, 7, item["id"])
	assert.Equal(t, "https://feed.example.com/members/ada/", item["link"])
	assert.Equal(t, 0, item["parent"])
	assert.Equal(t, 12, item["prime_association"])
	assert.Equal(t, 4, item["secondary_association"])
	assert.Equal(t, "published", item["status"])
	assert.Equal(t, "Ada posted an update", item["title"])
	assert.Equal(t, "动态", item["type"])
}

func TestProjectCommentParentAndUpLink(t *testing.T) {
	a := sampleActivity()
	a.Type = models.CommentType
	a.ItemID = 42
	item, err := newProjector().Project(context.Background(), a, ContextView)
	require.NoError(t, err)

	assert.Equal(t, 42, item["parent"])
	links := item["_links"].(Links)
	require.Contains(t, links, "up")
	assert.Equal(t, "https://feed.example.com/v1/activity/42", links["up"][0].Href)
	assert.Equal(t, models.CommentType, item["type"])
}

func TestProjectNonCommentHasNoParent(t *testing.T) {
	item, err := newProjector().Project(context.Background(), sampleActivity(), ContextView)
	require.NoError(t, err)

	assert.Equal(t, 0, item["parent"])
	links := item["_links"].(Links)
	assert.NotContains(t, links, "up")
	assert.Equal(t, "https://feed.example.com/v1/activity/7", links["self"][0].Href)
	assert.Equal(t, "https://feed.example.com/v1/activity/", links["collection"][0].Href)
	assert.Equal(t, "https://feed.example.com/v1/users/3", links["author"][0].Href)
}

func TestProjectSpamStatus(t *testing.T) {
	a := sampleActivity()
	a.IsSpam = true
	item, err := newProjector().Project(context.Background(), a, ContextView)
	require.NoError(t, err)
	assert.Equal(t, "spam", item["status"])
}

func TestProjectUnsetDateIsNull(t *testing.T) {
	a := sampleActivity()
	a.DateRecorded = time.Time{}
	item, err := newProjector().Project(context.Background(), a, ContextView)
	require.NoError(t, err)
	assert.Contains(t, item, "date")
	assert.Nil(t, item["date"])
}

func TestProjectDateIsRFC3339(t *testing.T) {
	a := sampleActivity()
	a.DateRecorded = time.Date(2023, 1, 2, 3, 4, 5, 0, time.FixedZone("CST", 8*3600))
	item, err := newProjector().Project(context.Background(), a, ContextView)
	require.NoError(t, err)
	parsed, err := time.Parse(time.RFC3339, item["date"].(string))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(a.DateRecorded))
}

func TestProjectIsIdempotent(t *testing.T) {
	p := newProjector()
	a := sampleActivity()
	first, err := p.Project(context.Background(), a, ContextEdit)
	require.NoError(t, err)
	second, err := p.Project(context.Background(), a, ContextEdit)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProjectKeepsUndeclaredFieldsInEveryContext(t *testing.T) {
	for _, ctx := range []string{ContextView, ContextEdit} {
		item, err := newProjector().Project(context.Background(), sampleActivity(), ctx)
		require.NoError(t, err)

		assert.Contains(t, item, "id")
		assert.Contains(t, item, "content")
		assert.Contains(t, item, "author_id")
		assert.Contains(t, item, "avatar_url")
		assert.Contains(t, item, "_links")
	}
}

func TestProjectUnmappedTypePassesThrough(t *testing.T) {
	a := sampleActivity()
	a.Type = "custom_thing"
	item, err := newProjector().Project(context.Background(), a, "")
	require.NoError(t, err)
	assert.Equal(t, "custom_thing", item["type"])
}

func TestProjectAvatarFailure(t *testing.T) {
	p := newProjector()
	boom := errors.New("presign failed")
	p.Avatars = templateAvatars{err: boom}
	_, err := p.Project(context.Background(), sampleActivity(), ContextView)
	assert.ErrorIs(t, err, boom)
}

func TestTypeLabels(t *testing.T) {
	var nilLabels TypeLabels
	assert.Equal(t, "x", nilLabels.Label("x"))
	assert.Equal(t, "y", TypeLabels{"x": "y"}.Label("x"))
	assert.Equal(t, "x", TypeLabels{"x": ""}.Label("x"))
}
