package ports

import "github-issue-automation/internal/domain/entity"

// EventReader defines the interface for loading the webhook payload that
// triggered the run.
type EventReader interface {
	ReadEvent(path string) (*entity.AssignmentEvent, error)
}
