package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mangapanel/pkg/models"
)

var (
	ErrEmailTaken   = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const userColumns = `id, email, name, password_hash, role, image, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u     models.User
		name  sql.NullString
		hash  sql.NullString
		image sql.NullString
		role  string
	)
	if err := row.Scan(&u.ID, &u.Email, &name, &hash, &role, &image, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Name = name.String
	u.PasswordHash = hash.String
	u.Image = image.String
	u.Role = models.Role(role)
	return &u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Email, nullable(u.Name), nullable(u.PasswordHash), string(u.Role))

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = ?
	`, strings.TrimSpace(email))
	return scanUser(row)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
	`, id)
	return scanUser(row)
}

// List pages users ordered by creation time, newest first.
func (r *Repo) List(ctx context.Context, page, limit int) ([]models.Profile, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email, name, role, image, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.Profile, 0, limit)
	for rows.Next() {
		var (
			p     models.Profile
			name  sql.NullString
			image sql.NullString
			role  string
		)
		if err := rows.Scan(&p.ID, &p.Email, &name, &role, &image, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan profile: %w", err)
		}
		p.Name = name.String
		p.Image = image.String
		p.Role = models.Role(role)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

func (r *Repo) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET role = ? WHERE id = ?
	`, string(role), id)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update role rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation recognizes sqlite unique-constraint failures so races
// between two concurrent creates surface as conflicts, not 500s.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
