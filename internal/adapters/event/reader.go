// Package event loads the `issues` webhook payload that triggered the
// run, usually the file named by GITHUB_EVENT_PATH.
package event

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-github/v58/github"

	"github-issue-automation/internal/domain/entity"
	"github-issue-automation/internal/ports"
)

// Ensure Reader implements the ports.EventReader interface.
var _ ports.EventReader = (*Reader)(nil)

// Reader decodes webhook event files into domain events.
type Reader struct{}

// NewReader creates a new event reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadEvent loads and converts an issues event. An empty path falls back
// to GITHUB_EVENT_PATH.
func (r *Reader) ReadEvent(path string) (*entity.AssignmentEvent, error) {
	if path == "" {
		path = os.Getenv("GITHUB_EVENT_PATH")
	}
	if path == "" {
		return nil, fmt.Errorf("no event path given and GITHUB_EVENT_PATH is not set")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading event file: %w", err)
	}

	return ParseEvent(data)
}

// ParseEvent converts a raw issues event payload into the domain event.
func ParseEvent(data []byte) (*entity.AssignmentEvent, error) {
	var payload github.IssuesEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("error parsing event payload: %w", err)
	}

	if payload.Issue == nil || payload.Issue.Number == nil {
		return nil, fmt.Errorf("payload is not an issues event: no issue")
	}
	if payload.Repo == nil || payload.Repo.Name == nil ||
		payload.Repo.Owner == nil || payload.Repo.Owner.Login == nil {
		return nil, fmt.Errorf("payload is not an issues event: no repository")
	}

	ev := &entity.AssignmentEvent{
		Action:     payload.GetAction(),
		Owner:      payload.Repo.Owner.GetLogin(),
		Repository: payload.Repo.GetName(),
		Number:     payload.Issue.GetNumber(),
	}

	if payload.Assignee != nil {
		ev.Assignee = payload.Assignee.GetLogin()
	}
	for _, user := range payload.Issue.Assignees {
		if login := user.GetLogin(); login != "" {
			ev.Assignees = append(ev.Assignees, login)
		}
	}

	return ev, nil
}
