package faculty

import (
	"context"
)

type StubFacultyRepository struct {
	data  map[string]Faculty
	order []string
}

func NewStubFacultyRepository() *StubFacultyRepository {
	return &StubFacultyRepository{data: map[string]Faculty{}}
}

func (s *StubFacultyRepository) Cleanup() {
	s.data = map[string]Faculty{}
	s.order = nil
}

func (s *StubFacultyRepository) CreateFaculty(ctx context.Context, faculty Faculty) (Faculty, error) {
	for _, existing := range s.data {
		if existing.Name == faculty.Name {
			return Faculty{}, ErrNameTaken
		}
	}
	s.data[faculty.ID] = faculty
	s.order = append(s.order, faculty.ID)
	return faculty, nil
}

func (s *StubFacultyRepository) GetFaculty(ctx context.Context, id string) (Faculty, error) {
	faculty, ok := s.data[id]
	if !ok {
		return Faculty{}, ErrFacultyNotFound
	}
	return faculty, nil
}

func (s *StubFacultyRepository) GetFacultyByName(ctx context.Context, name string) (Faculty, error) {
	for _, faculty := range s.data {
		if faculty.Name == name {
			return faculty, nil
		}
	}
	return Faculty{}, ErrFacultyNotFound
}

func (s *StubFacultyRepository) RenameFaculty(ctx context.Context, id, name string) error {
	faculty, ok := s.data[id]
	if !ok {
		return ErrFacultyNotFound
	}
	faculty.Name = name
	s.data[id] = faculty
	return nil
}

func (s *StubFacultyRepository) DeleteFaculty(ctx context.Context, id string) error {
	if _, ok := s.data[id]; !ok {
		return ErrFacultyNotFound
	}
	delete(s.data, id)
	for i, fid := range s.order {
		if fid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *StubFacultyRepository) ListFaculties(ctx context.Context) ([]Faculty, error) {
	faculties := make([]Faculty, 0, len(s.order))
	for _, id := range s.order {
		faculties = append(faculties, s.data[id])
	}
	return faculties, nil
}

func (s *StubFacultyRepository) AddDepartment(ctx context.Context, facultyID string, department Department) error {
	faculty, ok := s.data[facultyID]
	if !ok {
		return ErrFacultyNotFound
	}
	for _, existing := range faculty.Departments {
		if existing.Name == department.Name {
			return ErrNameTaken
		}
	}
	faculty.Departments = append(faculty.Departments, department)
	s.data[facultyID] = faculty
	return nil
}

func (s *StubFacultyRepository) RenameDepartment(ctx context.Context, facultyID, departmentID, name string) error {
	faculty, ok := s.data[facultyID]
	if !ok {
		return ErrFacultyNotFound
	}
	for i, department := range faculty.Departments {
		if department.ID == departmentID {
			faculty.Departments[i].Name = name
			s.data[facultyID] = faculty
			return nil
		}
	}
	return ErrDepartmentNotFound
}

func (s *StubFacultyRepository) RemoveDepartment(ctx context.Context, facultyID, departmentID string) error {
	faculty, ok := s.data[facultyID]
	if !ok {
		return ErrFacultyNotFound
	}
	for i, department := range faculty.Departments {
		if department.ID == departmentID {
			faculty.Departments = append(faculty.Departments[:i], faculty.Departments[i+1:]...)
			s.data[facultyID] = faculty
			return nil
		}
	}
	return ErrDepartmentNotFound
}
