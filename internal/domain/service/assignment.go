package service

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github-issue-automation/internal/domain/entity"
	"github-issue-automation/internal/ports"
)

// AssignmentService reacts to issue assignment events: it swaps the
// configured workflow labels and posts a greeting comment through the
// entity layer. Every mutation invalidates the entity cache, so reads
// after the swap reflect the new state.
type AssignmentService struct {
	graph  *entity.Graph
	config *entity.Config
	logger ports.Logger
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(graph *entity.Graph, config *entity.Config, logger ports.Logger) *AssignmentService {
	return &AssignmentService{
		graph:  graph,
		config: config,
		logger: logger,
	}
}

// HandleEvent dispatches one webhook event. Actions other than assigned
// and unassigned are ignored with a log line. Errors from the API
// propagate unchanged; an unhandled error fails the hosting workflow run.
func (s *AssignmentService) HandleEvent(ctx context.Context, ev *entity.AssignmentEvent) error {
	switch {
	case ev.IsAssigned():
		return s.handleAssigned(ctx, ev)
	case ev.IsUnassigned():
		return s.handleUnassigned(ctx, ev)
	default:
		s.logger.Info("Ignoring issues event action %q for %s/%s#%d",
			ev.Action, ev.Owner, ev.Repository, ev.Number)
		return nil
	}
}

// handleAssigned moves the issue into the active state: awaiting labels
// off, active labels on, greeting comment posted.
func (s *AssignmentService) handleAssigned(ctx context.Context, ev *entity.AssignmentEvent) error {
	issue := s.graph.Issue(ev.Owner, ev.Repository, ev.Number)

	s.logger.Group(fmt.Sprintf("Assignment of %s/%s#%d to @%s",
		ev.Owner, ev.Repository, ev.Number, ev.Assignee))
	defer s.logger.EndGroup()

	for _, label := range s.config.Labels.Awaiting {
		s.logger.Verbose("Removing label %q", label)
		if err := issue.RemoveLabel(ctx, label); err != nil {
			return fmt.Errorf("remove label %q from #%d: %w", label, ev.Number, err)
		}
	}

	if len(s.config.Labels.Active) > 0 {
		s.logger.Verbose("Adding labels %s", strings.Join(s.config.Labels.Active, ", "))
		if err := issue.AddLabels(ctx, s.config.Labels.Active...); err != nil {
			return fmt.Errorf("add labels to #%d: %w", ev.Number, err)
		}
	}

	if s.config.Comment.Enabled {
		body, err := s.renderComment(ev)
		if err != nil {
			return err
		}
		s.logger.Verbose("Posting greeting comment")
		if err := issue.AddComment(ctx, body); err != nil {
			return fmt.Errorf("comment on #%d: %w", ev.Number, err)
		}
	}

	s.logger.Info("Issue #%d moved to in-progress for @%s", ev.Number, ev.Assignee)
	return nil
}

// handleUnassigned reverses the label swap once nobody is assigned
// anymore. No comment is posted on the way back.
func (s *AssignmentService) handleUnassigned(ctx context.Context, ev *entity.AssignmentEvent) error {
	if ev.HasRemainingAssignees() {
		s.logger.Debug("Issue #%d still has assignees, keeping labels", ev.Number)
		return nil
	}

	issue := s.graph.Issue(ev.Owner, ev.Repository, ev.Number)

	s.logger.Group(fmt.Sprintf("Unassignment of %s/%s#%d", ev.Owner, ev.Repository, ev.Number))
	defer s.logger.EndGroup()

	for _, label := range s.config.Labels.Active {
		s.logger.Verbose("Removing label %q", label)
		if err := issue.RemoveLabel(ctx, label); err != nil {
			return fmt.Errorf("remove label %q from #%d: %w", label, ev.Number, err)
		}
	}

	if len(s.config.Labels.Awaiting) > 0 {
		s.logger.Verbose("Restoring labels %s", strings.Join(s.config.Labels.Awaiting, ", "))
		if err := issue.AddLabels(ctx, s.config.Labels.Awaiting...); err != nil {
			return fmt.Errorf("add labels to #%d: %w", ev.Number, err)
		}
	}

	s.logger.Info("Issue #%d returned to awaiting state", ev.Number)
	return nil
}

// renderComment expands the configured greeting template.
func (s *AssignmentService) renderComment(ev *entity.AssignmentEvent) (string, error) {
	text := s.config.Comment.Template
	if text == "" {
		text = entity.DefaultCommentTemplate
	}

	tmpl, err := template.New("comment").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse comment template: %w", err)
	}

	var sb strings.Builder
	err = tmpl.Execute(&sb, struct {
		Assignee string
		Number   int
	}{Assignee: ev.Assignee, Number: ev.Number})
	if err != nil {
		return "", fmt.Errorf("render comment template: %w", err)
	}
	return sb.String(), nil
}
