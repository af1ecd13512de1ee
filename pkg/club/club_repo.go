package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	ErrClubNotFound = errors.New("club not found")
	ErrNameTaken    = errors.New("club name already in use")
)

type Repo interface {
	CreateClub(ctx context.Context, club Club) (Club, error)
	GetClub(ctx context.Context, id string) (Club, error)
	GetClubByName(ctx context.Context, name string) (Club, error)
	UpdateClub(ctx context.Context, club Club) (Club, error)
	DeleteClub(ctx context.Context, id string) error
	ListClubs(ctx context.Context) ([]Club, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewClubRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateClub(ctx context.Context, club Club) (Club, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clubs (id, name, secret_hash) VALUES ($1, $2, $3)`,
		club.ID, club.Name, club.SecretHash)
	if err != nil {
		if isUniqueViolation(err) {
			return Club{}, ErrNameTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Club{}, err
	}
	return club, nil
}

func (r *RepoImpl) GetClub(ctx context.Context, id string) (Club, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, secret_hash FROM clubs WHERE id = $1`, id)
	return scanClub(row)
}

func (r *RepoImpl) GetClubByName(ctx context.Context, name string) (Club, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, secret_hash FROM clubs WHERE name = $1`, name)
	return scanClub(row)
}

func scanClub(row *sql.Row) (Club, error) {
	var club Club
	err := row.Scan(&club.ID, &club.Name, &club.SecretHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Club{}, ErrClubNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to get club: %w", err)
		log.Error(err)
		return Club{}, err
	}
	return club, nil
}

func (r *RepoImpl) UpdateClub(ctx context.Context, club Club) (Club, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE clubs SET name = $1, secret_hash = $2 WHERE id = $3`,
		club.Name, club.SecretHash, club.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Club{}, ErrNameTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Club{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return Club{}, err
	}
	if rowsAffected == 0 {
		return Club{}, ErrClubNotFound
	}
	return club, nil
}

func (r *RepoImpl) DeleteClub(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clubs WHERE id = $1`, id)
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
		return ErrClubNotFound
	}
	return nil
}

func (r *RepoImpl) ListClubs(ctx context.Context) ([]Club, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, secret_hash FROM clubs ORDER BY name`)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	clubs := make([]Club, 0)
	for rows.Next() {
		var club Club
		if err := rows.Scan(&club.ID, &club.Name, &club.SecretHash); err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}
	return clubs, rows.Err()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
