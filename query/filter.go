package query

import "sort"

// Filter accumulates the equality filters of a list query. Each setter owns
// one key, so setting the component never clears the type and vice versa.
type Filter struct {
	object     string
	action     string
	userIDs    []int
	primaryIDs []int
}

// SetObject filters on the activity component.
func (f *Filter) SetObject(component string) *Filter {
	f.object = component
	return f
}

// SetAction filters on the activity type.
func (f *Filter) SetAction(activityType string) *Filter {
	f.action = activityType
	return f
}

// SetUserIDs filters on the author.
func (f *Filter) SetUserIDs(ids []int) *Filter {
	f.userIDs = append([]int(nil), ids...)
	return f
}

// SetPrimaryIDs filters on the primary association.
func (f *Filter) SetPrimaryIDs(ids []int) *Filter {
	f.primaryIDs = append([]int(nil), ids...)
	return f
}

func (f Filter) Object() string    { return f.object }
func (f Filter) Action() string    { return f.action }
func (f Filter) UserIDs() []int    { return f.userIDs }
func (f Filter) PrimaryIDs() []int { return f.primaryIDs }

// Keys lists the filter keys that are set, sorted.
func (f Filter) Keys() []string {
	var keys []string
	if f.object != "" {
		keys = append(keys, "object")
	}
	if f.action != "" {
		keys = append(keys, "action")
	}
	if len(f.userIDs) > 0 {
		keys = append(keys, "user_id")
	}
	if len(f.primaryIDs) > 0 {
		keys = append(keys, "primary_id")
	}
	sort.Strings(keys)
	return keys
}

func (f Filter) IsEmpty() bool { return len(f.Keys()) == 0 }
