package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
	"github.com/helpdesk-hq/helpdesk-service/internal/events"
	"github.com/helpdesk-hq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-hq/helpdesk-service/pkg/util"
)

const (
	ticketIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ticketIDSuffix  = 6

	// maxTicketIDAttempts bounds the generation loop. With 36^6 suffixes a
	// collision streak this long means something is wrong with the store,
	// not with the dice.
	maxTicketIDAttempts = 20
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	DueDate     *time.Time
}

// TicketListInput describes listing filters.
type TicketListInput struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	AssignedTo  *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// CreateTicket creates a ticket for the reporting user. The identity is
// assigned before the first persist and never regenerated; if the store
// rejects a raced duplicate the whole generation is retried.
func (s *TicketService) CreateTicket(ctx context.Context, createdBy string, input TicketCreateInput) (*domain.Ticket, error) {
	if createdBy == "" {
		return nil, apperrors.NewValidationError("created_by required", nil)
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	for attempt := 0; attempt < maxTicketIDAttempts; attempt++ {
		ticketID, err := s.generateTicketID(ctx)
		if err != nil {
			return nil, err
		}

		ticket := &domain.Ticket{
			TicketID:    ticketID,
			Title:       title,
			Description: description,
			CreatedBy:   createdBy,
			Priority:    priority,
			Status:      domain.TicketStatusOpen,
			DueDate:     input.DueDate,
		}
		ticket.StampStatusTimes(time.Now())

		err = s.tickets.Create(ctx, ticket)
		if errors.Is(err, repository.ErrDuplicateTicketID) {
			// Two creations raced past the existence pre-check; the unique
			// constraint is the authoritative guard.
			continue
		}
		if err != nil {
			return nil, apperrors.MapError(err)
		}

		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketCreated,
			TicketID: ticket.ID,
			ActorID:  createdBy,
			Payload: events.TicketCreatedPayload{
				TicketKey: ticket.TicketID,
				Priority:  ticket.Priority,
				Title:     ticket.Title,
			},
		})
		return ticket, nil
	}
	return nil, apperrors.NewTicketIDExhausted(maxTicketIDAttempts)
}

// generateTicketID draws TKT-<year>-<6 chars of [A-Z0-9]> candidates until
// one is free of collisions. The existence check is a best-effort pre-filter;
// the store's unique constraint has the final say.
func (s *TicketService) generateTicketID(ctx context.Context) (string, error) {
	year := time.Now().Year()
	for attempt := 0; attempt < maxTicketIDAttempts; attempt++ {
		suffix, err := randomSuffix(ticketIDSuffix)
		if err != nil {
			return "", apperrors.NewInternalError(err)
		}
		candidate := fmt.Sprintf("TKT-%d-%s", year, suffix)
		exists, err := s.tickets.ExistsTicketID(ctx, candidate)
		if err != nil {
			return "", apperrors.MapError(err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperrors.NewTicketIDExhausted(maxTicketIDAttempts)
}

func randomSuffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = ticketIDCharset[int(b)%len(ticketIDCharset)]
	}
	return string(out), nil
}

// GetTicket fetches a ticket with its comment thread. The reporting user
// sees only their own tickets and no internal comments; agents and admins
// see everything.
func (s *TicketService) GetTicket(ctx context.Context, viewerID string, viewerRole domain.Role, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !viewerRole.IsStaff() && ticket.CreatedBy != viewerID {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if !viewerRole.IsStaff() {
		comments = filterInternal(comments)
	}
	return ticket, comments, nil
}

// ListTickets returns tickets visible to the viewer: their own for plain
// users, everything matching the filter for staff.
func (s *TicketService) ListTickets(ctx context.Context, viewerID string, viewerRole domain.Role, input TicketListInput) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		AssignedTo:  input.AssignedTo,
		Statuses:    input.Statuses,
		Priorities:  input.Priorities,
		SearchTerm:  input.SearchTerm,
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
		Limit:       input.Limit,
		Offset:      input.Offset,
	}
	if !viewerRole.IsStaff() {
		viewer := viewerID
		filter.CreatedBy = &viewer
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateStatus transitions a ticket and records the change as a
// status_change comment. Staff may move a ticket anywhere; the reporter may
// only close their own ticket.
func (s *TicketService) UpdateStatus(ctx context.Context, actorID string, actorRole domain.Role, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !actorRole.IsStaff() {
		if ticket.CreatedBy != actorID || newStatus != domain.TicketStatusClosed {
			return nil, apperrors.NewForbidden("access denied")
		}
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	ticket.StampStatusTimes(time.Now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if oldStatus != newStatus {
		comment := &domain.Comment{
			TicketID:    ticket.ID,
			AuthorID:    actorID,
			Content:     fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus),
			CommentType: domain.CommentTypeStatusChange,
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority (staff only, enforced at routing).
func (s *TicketService) UpdatePriority(ctx context.Context, actorID string, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !domain.ValidPriority(newPriority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": newPriority})
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ticket.Priority = newPriority
	ticket.StampStatusTimes(time.Now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// SetDueDate sets or clears the ticket deadline (staff only, enforced at
// routing).
func (s *TicketService) SetDueDate(ctx context.Context, actorID string, ticketID string, dueDate *time.Time) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ticket.DueDate = dueDate
	ticket.StampStatusTimes(time.Now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// DeleteTicket removes a ticket and, via cascade, its comments. Admins may
// delete any ticket; the reporter may delete their own.
func (s *TicketService) DeleteTicket(ctx context.Context, actorID string, actorRole domain.Role, ticketID string) error {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleAdmin && ticket.CreatedBy != actorID {
		return apperrors.NewForbidden("access denied")
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// CommentInput describes a new thread comment.
type CommentInput struct {
	Content     string
	CommentType domain.CommentType
	IsInternal  bool
}

// AddComment appends a comment to a ticket thread. Plain users may only post
// public comments on their own tickets; staff may post internal notes and
// escalations anywhere.
func (s *TicketService) AddComment(ctx context.Context, authorID string, authorRole domain.Role, ticketID string, input CommentInput) (*domain.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	commentType := input.CommentType
	if commentType == "" {
		commentType = domain.CommentTypeComment
	}
	if !domain.ValidCommentType(commentType) {
		return nil, apperrors.NewValidationError("invalid comment type", map[string]any{"comment_type": commentType})
	}

	isInternal := input.IsInternal
	if !authorRole.IsStaff() {
		if ticket.CreatedBy != authorID {
			return nil, apperrors.NewForbidden("access denied")
		}
		commentType = domain.CommentTypeComment
		isInternal = false
	}

	comment := &domain.Comment{
		TicketID:    ticket.ID,
		AuthorID:    authorID,
		Content:     content,
		CommentType: commentType,
		IsInternal:  isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		ActorID:  authorID,
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			CommentType: comment.CommentType,
			AuthorID:    comment.AuthorID,
			IsInternal:  comment.IsInternal,
		},
	})
	return comment, nil
}

// EditComment rewrites a comment's content. Only the author may edit, and
// only the content is mutable.
func (s *TicketService) EditComment(ctx context.Context, actorID, commentID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}
	if comment.AuthorID != actorID {
		return nil, apperrors.NewForbidden("only the author may edit a comment")
	}
	comment.Content = content
	if err := s.comments.UpdateContent(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func filterInternal(comments []domain.Comment) []domain.Comment {
	filtered := make([]domain.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.IsInternal {
			continue
		}
		filtered = append(filtered, comment)
	}
	return filtered
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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
