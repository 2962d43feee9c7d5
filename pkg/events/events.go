package events

const TypeActivityCreated = "activity.created"

// ActivityCreated is pushed to the author after a successful create.
// Fields may be added; existing ones keep their meaning.
type ActivityCreated struct {
	Type         string `json:"type"`
	ActivityID   int    `json:"activityId"`
	Component    string `json:"component,omitempty"`
	ActivityType string `json:"activityType,omitempty"`
}

func NewActivityCreated(id int, component, activityType string) ActivityCreated {
	return ActivityCreated{
		Type:         TypeActivityCreated,
		ActivityID:   id,
		Component:    component,
		ActivityType: activityType,
	}
}
