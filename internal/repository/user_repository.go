package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
)

// UserFilter captures user search parameters.
type UserFilter struct {
	SearchTerm *string
	Role       *domain.Role
	Limit      int
	Offset     int
}

// UserRepository defines persistence access for accounts and their profiles.
type UserRepository interface {
	CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter UserFilter) ([]domain.User, []domain.Profile, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// CreateWithProfile inserts the account and its profile in one transaction.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const userQuery = `
            INSERT INTO users (username, email, password_hash)
            VALUES ($1, $2, $3)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, userQuery,
			user.Username,
			user.Email,
			user.PasswordHash,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return err
		}

		profile.UserID = user.ID
		const profileQuery = `
            INSERT INTO user_profiles (user_id, first_name, last_name, role, phone, department)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING created_at, updated_at`
		return tx.QueryRow(ctx, profileQuery,
			profile.UserID,
			profile.FirstName,
			profile.LastName,
			profile.Role,
			profile.Phone,
			profile.Department,
		).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	})
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET username=$1, email=$2, password_hash=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id=$1`, userColumns)
	return r.fetchUser(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username=$1`, userColumns)
	return r.fetchUser(ctx, query, username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email=$1`, userColumns)
	return r.fetchUser(ctx, query, email)
}

func (r *userRepository) fetchUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	const query = `
        SELECT user_id, first_name, last_name, role, phone, department, created_at, updated_at
        FROM user_profiles WHERE user_id=$1`
	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Role,
		&profile.Phone,
		&profile.Department,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	const query = `
        UPDATE user_profiles SET first_name=$1, last_name=$2, role=$3, phone=$4, department=$5, updated_at=NOW()
        WHERE user_id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		profile.FirstName,
		profile.LastName,
		profile.Role,
		profile.Phone,
		profile.Department,
		profile.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Search matches username, email, or profile name, optionally narrowed by
// role. Users and their profiles are returned index-aligned.
func (r *userRepository) Search(ctx context.Context, filter UserFilter) ([]domain.User, []domain.Profile, error) {
	base := `
        SELECT u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at,
               p.user_id, p.first_name, p.last_name, p.role, p.phone, p.department, p.created_at, p.updated_at
        FROM users u
        JOIN user_profiles p ON p.user_id = u.id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(u.username) LIKE %s OR LOWER(u.email) LIKE %s OR LOWER(p.first_name) LIKE %s OR LOWER(p.last_name) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("p.role=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY u.username ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var users []domain.User
	var profiles []domain.Profile
	for rows.Next() {
		var user domain.User
		var profile domain.Profile
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
			&profile.UserID,
			&profile.FirstName,
			&profile.LastName,
			&profile.Role,
			&profile.Phone,
			&profile.Department,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, nil, err
		}
		users = append(users, user)
		profiles = append(profiles, profile)
	}
	return users, profiles, rows.Err()
}
