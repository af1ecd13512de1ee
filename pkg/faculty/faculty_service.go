package faculty

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNameRequired = errors.New("name is required")

type Service interface {
	CreateFaculty(ctx context.Context, name string) (Faculty, error)
	RenameFaculty(ctx context.Context, id, name string) (Faculty, error)
	DeleteFaculty(ctx context.Context, id string) error
	ListFaculties(ctx context.Context) ([]Faculty, error)
	GetFaculty(ctx context.Context, id string) (Faculty, error)
	AddDepartment(ctx context.Context, facultyID, name string) (Faculty, error)
	RenameDepartment(ctx context.Context, facultyID, departmentID, name string) (Faculty, error)
	RemoveDepartment(ctx context.Context, facultyID, departmentID string) (Faculty, error)
	FacultyExists(ctx context.Context, name string) (bool, error)
	DepartmentExists(ctx context.Context, facultyName, departmentName string) (bool, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewFacultyService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateFaculty(ctx context.Context, name string) (Faculty, error) {
	if name == "" {
		return Faculty{}, ErrNameRequired
	}
	return s.repo.CreateFaculty(ctx, Faculty{
		ID:          uuid.NewString(),
		Name:        name,
		Departments: []Department{},
	})
}

func (s *ServiceImpl) RenameFaculty(ctx context.Context, id, name string) (Faculty, error) {
	if name == "" {
		return Faculty{}, ErrNameRequired
	}
	if err := s.repo.RenameFaculty(ctx, id, name); err != nil {
		return Faculty{}, err
	}
	return s.repo.GetFaculty(ctx, id)
}

// DeleteFaculty removes the faculty and its departments. Accounts and events
// referencing it by name are left untouched; names are denormalized strings,
// never foreign keys.
func (s *ServiceImpl) DeleteFaculty(ctx context.Context, id string) error {
	return s.repo.DeleteFaculty(ctx, id)
}

func (s *ServiceImpl) ListFaculties(ctx context.Context) ([]Faculty, error) {
	return s.repo.ListFaculties(ctx)
}

func (s *ServiceImpl) GetFaculty(ctx context.Context, id string) (Faculty, error) {
	return s.repo.GetFaculty(ctx, id)
}

func (s *ServiceImpl) AddDepartment(ctx context.Context, facultyID, name string) (Faculty, error) {
	if name == "" {
		return Faculty{}, ErrNameRequired
	}
	// Ensure the faculty exists before inserting into it.
	if _, err := s.repo.GetFaculty(ctx, facultyID); err != nil {
		return Faculty{}, err
	}
	err := s.repo.AddDepartment(ctx, facultyID, Department{ID: uuid.NewString(), Name: name})
	if err != nil {
		return Faculty{}, err
	}
	return s.repo.GetFaculty(ctx, facultyID)
}

func (s *ServiceImpl) RenameDepartment(ctx context.Context, facultyID, departmentID, name string) (Faculty, error) {
	if name == "" {
		return Faculty{}, ErrNameRequired
	}
	if err := s.repo.RenameDepartment(ctx, facultyID, departmentID, name); err != nil {
		return Faculty{}, err
	}
	return s.repo.GetFaculty(ctx, facultyID)
}

func (s *ServiceImpl) RemoveDepartment(ctx context.Context, facultyID, departmentID string) (Faculty, error) {
	if err := s.repo.RemoveDepartment(ctx, facultyID, departmentID); err != nil {
		return Faculty{}, err
	}
	return s.repo.GetFaculty(ctx, facultyID)
}

func (s *ServiceImpl) FacultyExists(ctx context.Context, name string) (bool, error) {
	_, err := s.repo.GetFacultyByName(ctx, name)
	if errors.Is(err, ErrFacultyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ServiceImpl) DepartmentExists(ctx context.Context, facultyName, departmentName string) (bool, error) {
	faculty, err := s.repo.GetFacultyByName(ctx, facultyName)
	if errors.Is(err, ErrFacultyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, department := range faculty.Departments {
		if department.Name == departmentName {
			return true, nil
		}
	}
	return false, nil
}
