package dto

import (
	"time"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description" validate:"required"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time            `json:"due_date"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority" validate:"required,oneof=low medium high"`
}

// SetDueDateRequest payload. A null due_date clears the deadline.
type SetDueDateRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID string `json:"agent_id" validate:"required,uuid4"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content     string             `json:"content" validate:"required"`
	CommentType domain.CommentType `json:"comment_type" validate:"omitempty,oneof=comment system status_change assignment escalation"`
	IsInternal  bool               `json:"is_internal"`
}

// EditCommentRequest payload.
type EditCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         string                `json:"id"`
	TicketID   string                `json:"ticket_id"`
	Title      string                `json:"title"`
	CreatedBy  string                `json:"created_by"`
	AssignedTo *string               `json:"assigned_to"`
	Status     domain.TicketStatus   `json:"status"`
	Priority   domain.TicketPriority `json:"priority"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	DueDate    *time.Time            `json:"due_date,omitempty"`
}

// TicketDetailResponse provides full ticket info with its comment thread.
type TicketDetailResponse struct {
	ID                      string                `json:"id"`
	TicketID                string                `json:"ticket_id"`
	Title                   string                `json:"title"`
	Description             string                `json:"description"`
	CreatedBy               string                `json:"created_by"`
	AssignedTo              *string               `json:"assigned_to"`
	Status                  domain.TicketStatus   `json:"status"`
	Priority                domain.TicketPriority `json:"priority"`
	CreatedAt               time.Time             `json:"created_at"`
	UpdatedAt               time.Time             `json:"updated_at"`
	DueDate                 *time.Time            `json:"due_date,omitempty"`
	ResolvedAt              *time.Time            `json:"resolved_at,omitempty"`
	ClosedAt                *time.Time            `json:"closed_at,omitempty"`
	TimeToResolutionSeconds *float64              `json:"time_to_resolution_seconds,omitempty"`
	Comments                []CommentResponse     `json:"comments"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID          string             `json:"id"`
	TicketID    string             `json:"ticket_id"`
	AuthorID    string             `json:"author_id"`
	Content     string             `json:"content"`
	CommentType domain.CommentType `json:"comment_type"`
	IsInternal  bool               `json:"is_internal"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
