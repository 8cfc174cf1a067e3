package entity

// AssignmentEvent is the domain view of an `issues` webhook payload, as
// far as the automation cares: what happened, to which issue, and who is
// (still) assigned.
type AssignmentEvent struct {
	Action     string   `json:"action"`
	Owner      string   `json:"owner"`
	Repository string   `json:"repository"`
	Number     int      `json:"number"`
	Assignee   string   `json:"assignee,omitempty"`
	Assignees  []string `json:"assignees,omitempty"`
}

// IsAssigned reports whether the event added an assignee.
func (e *AssignmentEvent) IsAssigned() bool {
	return e.Action == "assigned"
}

// IsUnassigned reports whether the event removed an assignee.
func (e *AssignmentEvent) IsUnassigned() bool {
	return e.Action == "unassigned"
}

// HasRemainingAssignees reports whether anyone is still assigned.
func (e *AssignmentEvent) HasRemainingAssignees() bool {
	return len(e.Assignees) > 0
}
