package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
	"github.com/helpdesk-hq/helpdesk-service/internal/events"
	"github.com/helpdesk-hq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-hq/helpdesk-service/pkg/util"
)

// AssignmentService handles ticket assignment. This is the only path that
// couples a ticket mutation with comment creation.
type AssignmentService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// AssignToAgent assigns the ticket to agent and records a system comment
// naming them. If the assignee's role is not agent or admin the operation
// returns false and mutates nothing; that is a normal outcome, not an
// error. On success the assignee update and the comment are committed in
// one transaction and the comment's author is assignedBy when provided,
// else the agent.
func (s *AssignmentService) AssignToAgent(ctx context.Context, ticketID, agentID string, assignedBy *string) (bool, error) {
	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NewNotFound("user", map[string]any{"user_id": agentID})
		}
		return false, apperrors.MapError(err)
	}
	profile, err := s.users.GetProfile(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NewNotFound("profile", map[string]any{"user_id": agentID})
		}
		return false, apperrors.MapError(err)
	}
	if !profile.Role.IsStaff() {
		return false, nil
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return false, apperrors.MapError(err)
	}

	ticket.AssignedTo = &agent.ID
	ticket.StampStatusTimes(time.Now())

	authorID := agent.ID
	if assignedBy != nil && *assignedBy != "" {
		authorID = *assignedBy
	}
	comment := &domain.Comment{
		TicketID:    ticket.ID,
		AuthorID:    authorID,
		Content:     fmt.Sprintf("Ticket assigned to %s", domain.DisplayName(agent, profile)),
		CommentType: domain.CommentTypeSystem,
	}

	if err := s.tickets.AssignWithComment(ctx, ticket, comment); err != nil {
		return false, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  authorID,
		Payload: events.TicketAssignedPayload{
			AssigneeID: agent.ID,
		},
	})
	return true, nil
}

func (s *AssignmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
