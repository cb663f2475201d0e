package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
)

// ErrDuplicateTicketID is returned when an insert loses the race on the
// ticket_id unique constraint. Callers regenerate the identity and retry.
var ErrDuplicateTicketID = errors.New("duplicate ticket id")

// TicketFilter captures listing parameters.
type TicketFilter struct {
	CreatedBy   *string
	AssignedTo  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	DueFrom     *time.Time
	DueTo       *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	ExistsTicketID(ctx context.Context, ticketID string) (bool, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	AssignWithComment(ctx context.Context, ticket *domain.Ticket, comment *domain.Comment) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_id, title, description, created_by, assigned_to,
               priority, status, created_at, updated_at, due_date, resolved_at, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_id, title, description, created_by, assigned_to, priority, status, due_date, resolved_at, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.Title,
		ticket.Description,
		ticket.CreatedBy,
		ticket.AssignedTo,
		ticket.Priority,
		ticket.Status,
		ticket.DueDate,
		ticket.ResolvedAt,
		ticket.ClosedAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if isUniqueViolation(err, "tickets_ticket_id_key") {
		return ErrDuplicateTicketID
	}
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, assigned_to=$3, priority=$4,
            status=$5, due_date=$6, resolved_at=$7, closed_at=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.AssignedTo,
		ticket.Priority,
		ticket.Status,
		ticket.DueDate,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ID,
	).Scan(&ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, ticketID)
}

func (r *ticketRepository) ExistsTicketID(ctx context.Context, ticketID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tickets WHERE ticket_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.Title,
		&ticket.Description,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DueDate,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		clauses = append(clauses, fmt.Sprintf("due_date >= $%d", len(args)))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		clauses = append(clauses, fmt.Sprintf("due_date <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AssignWithComment persists the assignee change and the system comment in
// one transaction so both are visible or neither is.
func (r *ticketRepository) AssignWithComment(ctx context.Context, ticket *domain.Ticket, comment *domain.Comment) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const updateQuery = `
            UPDATE tickets SET assigned_to=$1, status=$2, resolved_at=$3, closed_at=$4, updated_at=NOW()
            WHERE id=$5
            RETURNING updated_at`
		if err := tx.QueryRow(ctx, updateQuery,
			ticket.AssignedTo,
			ticket.Status,
			ticket.ResolvedAt,
			ticket.ClosedAt,
			ticket.ID,
		).Scan(&ticket.UpdatedAt); err != nil {
			return err
		}

		const insertQuery = `
            INSERT INTO ticket_comments (ticket_id, author_id, content, comment_type, is_internal)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id, created_at, updated_at`
		return tx.QueryRow(ctx, insertQuery,
			comment.TicketID,
			comment.AuthorID,
			comment.Content,
			comment.CommentType,
			comment.IsInternal,
		).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	})
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketID,
			&ticket.Title,
			&ticket.Description,
			&ticket.CreatedBy,
			&ticket.AssignedTo,
			&ticket.Priority,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.DueDate,
			&ticket.ResolvedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
}
