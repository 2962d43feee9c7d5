package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroups struct {
	members map[int][]int
	calls   int
	err     error
}

func (f *fakeGroups) IsGroupMember(_ context.Context, userID, groupID int) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	for _, g := range f.members[userID] {
		if g == groupID {
			return true, nil
		}
	}
	return false, nil
}

type fakeModeration struct {
	moderators map[int]bool
	calls      int
	err        error
}

func (f *fakeModeration) HasModerationCapability(_ context.Context, userID int) (bool, error) {
	f.calls++
	return f.moderators[userID], f.err
}

func viewer(userID int) (Viewer, *fakeGroups, *fakeModeration) {
	g := &fakeGroups{members: map[int][]int{5: {10, 11}}}
	m := &fakeModeration{moderators: map[int]bool{1: true}}
	return Viewer{UserID: userID, Groups: g, Moderation: m}, g, m
}

func TestTranslateDefaults(t *testing.T) {
	v, g, m := viewer(5)
	args, err := Translate(context.Background(), DefaultListParams(), v)
	require.NoError(t, err)

	assert.Equal(t, HamOnly, args.Spam)
	assert.Equal(t, SortDesc, args.Sort)
	assert.True(t, args.CountTotal)
	assert.True(t, args.UpdateMetaCache)
	assert.Equal(t, FieldsAll, args.Fields)
	assert.False(t, args.ShowHidden)
	assert.Nil(t, args.Since)
	assert.True(t, args.Filter.IsEmpty())
	assert.Equal(t, ScopeJustMe, args.Scope)
	assert.Equal(t, 5, args.ScopeUserID)
	assert.Equal(t, 1, args.Page)
	assert.Equal(t, 20, args.PerPage)
	assert.Zero(t, g.calls)
	assert.Zero(t, m.calls)
}

func TestTranslateAlwaysSetsSpamFilter(t *testing.T) {
	v, _, _ := viewer(0)
	for _, status := range []string{"", StatusPublished, StatusSpam} {
		p := DefaultListParams()
		p.Status = status
		args, err := Translate(context.Background(), p, v)
		require.NoError(t, err)
		assert.NotEmpty(t, args.Spam)
		if status == StatusSpam {
			assert.Equal(t, SpamOnly, args.Spam)
		} else {
			assert.Equal(t, HamOnly, args.Spam)
		}
	}
}

func TestTranslateIncludeDisablesCount(t *testing.T) {
	v, _, _ := viewer(0)
	p := DefaultListParams()
	p.Include = []int{4, 8}
	args, err := Translate(context.Background(), p, v)
	require.NoError(t, err)
	assert.False(t, args.CountTotal)
	assert.Equal(t, []int{4, 8}, args.In)
}

func TestTranslateMergesComponentAndType(t *testing.T) {
	v, _, _ := viewer(0)
	p := DefaultListParams()
	p.Component = "activity"
	p.Type = "activity_update"
	p.Author = []int{3, 4}
	p.PrimaryID = []int{7}
	args, err := Translate(context.Background(), p, v)
	require.NoError(t, err)
	assert.Equal(t, "activity", args.Filter.Object())
	assert.Equal(t, "activity_update", args.Filter.Action())
	assert.Equal(t, []int{3, 4}, args.Filter.UserIDs())
	assert.Equal(t, []int{7}, args.Filter.PrimaryIDs())
	assert.Equal(t, []string{"action", "object", "primary_id", "user_id"}, args.Filter.Keys())
}

func TestTranslateSingleAuthorDrivesScope(t *testing.T) {
	v, _, _ := viewer(5)
	p := DefaultListParams()
	p.Author = []int{8}
	args, err := Translate(context.Background(), p, v)
	require.NoError(t, err)
	assert.Equal(t, 8, args.ScopeUserID)
}

func TestTranslatePassesThroughSinceAndOrder(t *testing.T) {
	v, _, _ := viewer(0)
	after := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := DefaultListParams()
	p.After = &after
	p.Order = OrderAsc
	p.Search = "hello"
	p.Exclude = []int{2}
	p.SecondaryID = []int{6}
	args, err := Translate(context.Background(), p, v)
	require.NoError(t, err)
	require.NotNil(t, args.Since)
	assert.True(t, after.Equal(*args.Since))
	assert.Equal(t, SortAsc, args.Sort)
	assert.Equal(t, "hello", args.SearchTerms)
	assert.Equal(t, []int{2}, args.Exclude)
	assert.Equal(t, []int{6}, args.SecondaryIDs)
}

func TestTranslateGroupsShowHidden(t *testing.T) {
	cases := []struct {
		name      string
		userID    int
		primaryID []int
		want      bool
	}{
		{"member", 5, []int{10}, true},
		{"member of every group", 5, []int{10, 11}, true},
		{"member of only one group", 5, []int{10, 12}, false},
		{"non member", 6, []int{10}, false},
		{"moderator", 1, []int{10}, true},
		{"moderator without group", 1, nil, true},
		{"member without group", 5, nil, false},
		{"anonymous", 0, []int{10}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, _, _ := viewer(tc.userID)
			p := DefaultListParams()
			p.Component = GroupsComponent
			p.PrimaryID = tc.primaryID
			args, err := Translate(context.Background(), p, v)
			require.NoError(t, err)
			assert.Equal(t, tc.want, args.ShowHidden)
		})
	}
}

func TestTranslateNonGroupComponentNeverShowsHidden(t *testing.T) {
	v, g, m := viewer(1)
	p := DefaultListParams()
	p.Component = "activity"
	p.PrimaryID = []int{10}
	args, err := Translate(context.Background(), p, v)
	require.NoError(t, err)
	assert.False(t, args.ShowHidden)
	assert.Zero(t, g.calls)
	assert.Zero(t, m.calls)
}

func TestTranslateEvaluatesPerViewer(t *testing.T) {
	p := DefaultListParams()
	p.Component = GroupsComponent
	p.PrimaryID = []int{10}

	member, _, _ := viewer(5)
	stranger, _, _ := viewer(6)
	a1, err := Translate(context.Background(), p, member)
	require.NoError(t, err)
	a2, err := Translate(context.Background(), p, stranger)
	require.NoError(t, err)
	assert.True(t, a1.ShowHidden)
	assert.False(t, a2.ShowHidden)
}

func TestTranslatePropagatesLookupErrors(t *testing.T) {
	boom := errors.New("db down")
	p := DefaultListParams()
	p.Component = GroupsComponent
	p.PrimaryID = []int{10}

	v, g, _ := viewer(5)
	g.err = boom
	_, err := Translate(context.Background(), p, v)
	assert.ErrorIs(t, err, boom)

	v, _, m := viewer(6)
	m.err = boom
	_, err = Translate(context.Background(), p, v)
	assert.ErrorIs(t, err, boom)
}
