package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
)

// CommentRepository manages ticket comment threads.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListByTicket returns the thread in ascending creation order.
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
	UpdateContent(ctx context.Context, comment *domain.Comment) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, author_id, content, comment_type, is_internal)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Content,
		comment.CommentType,
		comment.IsInternal,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, author_id, content, comment_type, is_internal, created_at, updated_at
        FROM ticket_comments WHERE id=$1`
	var comment domain.Comment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CommentType,
		&comment.IsInternal,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, author_id, content, comment_type, is_internal, created_at, updated_at
        FROM ticket_comments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CommentType,
			&comment.IsInternal,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

// UpdateContent rewrites the comment body. Only content and updated_at are
// mutable after creation.
func (r *commentRepository) UpdateContent(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE ticket_comments SET content=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, comment.Content, comment.ID).Scan(&comment.UpdatedAt)
	if err == pgx.ErrNoRows {
		return pgx.ErrNoRows
	}
	return err
}
