package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-hq/helpdesk-service/internal/api/dto"
	"github.com/helpdesk-hq/helpdesk-service/internal/auth"
	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
	"github.com/helpdesk-hq/helpdesk-service/internal/service"
	apperrors "github.com/helpdesk-hq/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket and comment endpoints.
type TicketsHandler struct {
	tickets    *service.TicketService
	assignment *service.AssignmentService
	validate   *validator.Validate
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, assignmentService *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{
		tickets:    ticketService,
		assignment: assignmentService,
		validate:   validator.New(),
	}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal.User.ID, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input := parseTicketListQuery(c)
	tickets, err := h.tickets.ListTickets(c.Context(), principal.User.ID, principal.Role(), input)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, comments, err := h.tickets.GetTicket(c.Context(), principal.User.ID, principal.Role(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, comments)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}
	ticket, err := h.tickets.UpdateStatus(c.Context(), principal.User.ID, principal.Role(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// UpdatePriority PATCH /tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}
	ticket, err := h.tickets.UpdatePriority(c.Context(), principal.User.ID, c.Params("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// SetDueDate PATCH /tickets/:id/due-date.
func (h *TicketsHandler) SetDueDate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SetDueDateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.SetDueDate(c.Context(), principal.User.ID, c.Params("id"), req.DueDate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}

	assignedBy := principal.User.ID
	assigned, err := h.assignment.AssignToAgent(c.Context(), c.Params("id"), req.AgentID, &assignedBy)
	if err != nil {
		return err
	}
	if !assigned {
		// Precondition failure, not an error: the assignee is not an agent
		// or admin and the ticket was left untouched.
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"data": fiber.Map{
				"assigned": false,
				"reason":   "assignee must have agent or admin role",
			},
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"assigned": true}})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.tickets.DeleteTicket(c.Context(), principal.User.ID, principal.Role(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}
	comment, err := h.tickets.AddComment(c.Context(), principal.User.ID, principal.Role(), c.Params("id"), service.CommentInput{
		Content:     req.Content,
		CommentType: req.CommentType,
		IsInternal:  req.IsInternal,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// EditComment PATCH /comments/:id.
func (h *TicketsHandler) EditComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EditCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}
	comment, err := h.tickets.EditComment(c.Context(), principal.User.ID, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponse(comment)})
}

func parseTicketListQuery(c *fiber.Ctx) service.TicketListInput {
	input := service.TicketListInput{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			input.Statuses = append(input.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			input.Priorities = append(input.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		input.AssignedTo = &assignee
	}
	if search := c.Query("search"); search != "" {
		input.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		input.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		input.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func validationDetails(err error) map[string]any {
	details := map[string]any{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:         ticket.ID,
		TicketID:   ticket.TicketID,
		Title:      ticket.Title,
		CreatedBy:  ticket.CreatedBy,
		AssignedTo: ticket.AssignedTo,
		Status:     ticket.Status,
		Priority:   ticket.Priority,
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
		DueDate:    ticket.DueDate,
	}
}

func ticketDetail(ticket *domain.Ticket, comments []domain.Comment) dto.TicketDetailResponse {
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	resp := dto.TicketDetailResponse{
		ID:          ticket.ID,
		TicketID:    ticket.TicketID,
		Title:       ticket.Title,
		Description: ticket.Description,
		CreatedBy:   ticket.CreatedBy,
		AssignedTo:  ticket.AssignedTo,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		DueDate:     ticket.DueDate,
		ResolvedAt:  ticket.ResolvedAt,
		ClosedAt:    ticket.ClosedAt,
		Comments:    items,
	}
	if ttr, ok := ticket.TimeToResolution(); ok {
		seconds := ttr.Seconds()
		resp.TimeToResolutionSeconds = &seconds
	}
	return resp
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          comment.ID,
		TicketID:    comment.TicketID,
		AuthorID:    comment.AuthorID,
		Content:     comment.Content,
		CommentType: comment.CommentType,
		IsInternal:  comment.IsInternal,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}
}
