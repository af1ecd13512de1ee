package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id string) error
	GetAllUsers(ctx context.Context) ([]User, error)
	SetLastActive(ctx context.Context, email string, at time.Time) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateUser(ctx context.Context, user User) (User, error) {
	query := `INSERT INTO users (id, username, email, password_hash, role, faculty, department, password_changed, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Faculty,
		user.Department,
		user.PasswordChanged,
		user.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Infof("email already registered: %s", user.Email)
			return User{}, ErrEmailTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return User{}, err
	}
	return user, nil
}

const userColumns = `id, username, email, password_hash, role, faculty, department, last_active, password_changed, created_at`

func (r *RepoImpl) GetUser(ctx context.Context, id string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *RepoImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *RepoImpl) scanUser(row *sql.Row) (User, error) {
	var user User
	var role string
	var lastActive sql.NullInt64
	var createdAt int64
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Faculty,
		&user.Department,
		&lastActive,
		&user.PasswordChanged,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to get user: %w", err)
		log.Error(err)
		return User{}, err
	}
	user.Role = Role(role)
	if lastActive.Valid {
		user.LastActive = time.Unix(lastActive.Int64, 0)
	}
	user.CreatedAt = time.Unix(createdAt, 0)
	return user, nil
}

func (r *RepoImpl) UpdateUser(ctx context.Context, user User) (User, error) {
	query := `UPDATE users SET username = $1, email = $2, password_hash = $3, role = $4, faculty = $5,
				department = $6, password_changed = $7 WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Faculty,
		user.Department,
		user.PasswordChanged,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return User{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if rowsAffected == 0 {
		log.Infof("no rows affected updating user %s", user.ID)
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *RepoImpl) DeleteUser(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *RepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var user User
		var role string
		var lastActive sql.NullInt64
		var createdAt int64
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&role,
			&user.Faculty,
			&user.Department,
			&lastActive,
			&user.PasswordChanged,
			&createdAt,
		); err != nil {
			return nil, err
		}
		user.Role = Role(role)
		if lastActive.Valid {
			user.LastActive = time.Unix(lastActive.Int64, 0)
		}
		user.CreatedAt = time.Unix(createdAt, 0)
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *RepoImpl) SetLastActive(ctx context.Context, email string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_active = $1 WHERE email = $2`, at.Unix(), email)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// isUniqueViolation matches the unique-constraint failures of both supported
// drivers (pgx reports SQLSTATE 23505, sqlite reports "UNIQUE constraint failed").
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
