package faculty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	ErrFacultyNotFound    = errors.New("faculty not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrNameTaken          = errors.New("name already in use")
)

type Repo interface {
	CreateFaculty(ctx context.Context, faculty Faculty) (Faculty, error)
	GetFaculty(ctx context.Context, id string) (Faculty, error)
	GetFacultyByName(ctx context.Context, name string) (Faculty, error)
	RenameFaculty(ctx context.Context, id, name string) error
	DeleteFaculty(ctx context.Context, id string) error
	ListFaculties(ctx context.Context) ([]Faculty, error)
	AddDepartment(ctx context.Context, facultyID string, department Department) error
	RenameDepartment(ctx context.Context, facultyID, departmentID, name string) error
	RemoveDepartment(ctx context.Context, facultyID, departmentID string) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewFacultyRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateFaculty(ctx context.Context, faculty Faculty) (Faculty, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO faculties (id, name) VALUES ($1, $2)`, faculty.ID, faculty.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return Faculty{}, ErrNameTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Faculty{}, err
	}
	return faculty, nil
}

func (r *RepoImpl) GetFaculty(ctx context.Context, id string) (Faculty, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM faculties WHERE id = $1`, id)
	return r.scanFaculty(ctx, row)
}

func (r *RepoImpl) GetFacultyByName(ctx context.Context, name string) (Faculty, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM faculties WHERE name = $1`, name)
	return r.scanFaculty(ctx, row)
}

func (r *RepoImpl) scanFaculty(ctx context.Context, row *sql.Row) (Faculty, error) {
	var faculty Faculty
	err := row.Scan(&faculty.ID, &faculty.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Faculty{}, ErrFacultyNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to get faculty: %w", err)
		log.Error(err)
		return Faculty{}, err
	}

	departments, err := r.departmentsOf(ctx, faculty.ID)
	if err != nil {
		return Faculty{}, err
	}
	faculty.Departments = departments
	return faculty, nil
}

func (r *RepoImpl) departmentsOf(ctx context.Context, facultyID string) ([]Department, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM departments WHERE faculty_id = $1 ORDER BY position`, facultyID)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	departments := make([]Department, 0)
	for rows.Next() {
		var department Department
		if err := rows.Scan(&department.ID, &department.Name); err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

func (r *RepoImpl) RenameFaculty(ctx context.Context, id, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE faculties SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return requireRows(result, ErrFacultyNotFound)
}

func (r *RepoImpl) DeleteFaculty(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE faculty_id = $1`, id); err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM faculties WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return requireRows(result, ErrFacultyNotFound)
}

func (r *RepoImpl) ListFaculties(ctx context.Context) ([]Faculty, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM faculties ORDER BY name`)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	faculties := make([]Faculty, 0)
	for rows.Next() {
		var faculty Faculty
		if err := rows.Scan(&faculty.ID, &faculty.Name); err != nil {
			return nil, err
		}
		faculties = append(faculties, faculty)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range faculties {
		departments, err := r.departmentsOf(ctx, faculties[i].ID)
		if err != nil {
			return nil, err
		}
		faculties[i].Departments = departments
	}
	return faculties, nil
}

func (r *RepoImpl) AddDepartment(ctx context.Context, facultyID string, department Department) error {
	query := `INSERT INTO departments (id, faculty_id, name, position)
				VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM departments WHERE faculty_id = $2))`
	_, err := r.db.ExecContext(ctx, query, department.ID, facultyID, department.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) RenameDepartment(ctx context.Context, facultyID, departmentID, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE departments SET name = $1 WHERE id = $2 AND faculty_id = $3`, name, departmentID, facultyID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return requireRows(result, ErrDepartmentNotFound)
}

func (r *RepoImpl) RemoveDepartment(ctx context.Context, facultyID, departmentID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM departments WHERE id = $1 AND faculty_id = $2`, departmentID, facultyID)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return requireRows(result, ErrDepartmentNotFound)
}

func requireRows(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
