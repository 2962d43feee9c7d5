package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSettersDoNotOverwriteEachOther(t *testing.T) {
	var f Filter
	f.SetObject("groups").SetAction("activity_update")
	f.SetUserIDs([]int{3}).SetPrimaryIDs([]int{9})

	assert.Equal(t, "groups", f.Object())
	assert.Equal(t, "activity_update", f.Action())
	assert.Equal(t, []int{3}, f.UserIDs())
	assert.Equal(t, []int{9}, f.PrimaryIDs())
	assert.Equal(t, []string{"action", "object", "primary_id", "user_id"}, f.Keys())
}

func TestFilterCopiesSlices(t *testing.T) {
	ids := []int{1, 2}
	var f Filter
	f.SetUserIDs(ids)
	ids[0] = 99
	assert.Equal(t, []int{1, 2}, f.UserIDs())
}

func TestEmptyFilter(t *testing.T) {
	var f Filter
	assert.True(t, f.IsEmpty())
	assert.Nil(t, f.Keys())
}

func TestArgsOffset(t *testing.T) {
	assert.Equal(t, 40, Args{Page: 3, PerPage: 20}.Offset())
	assert.Equal(t, 0, Args{}.Offset())
}

func TestByID(t *testing.T) {
	a := ByID(42)
	assert.Equal(t, []int{42}, a.In)
	assert.Equal(t, HamOnly, a.Spam)
	assert.False(t, a.ShowHidden)
	assert.Zero(t, a.ScopeUserID)
	assert.True(t, a.Filter.IsEmpty())
}
