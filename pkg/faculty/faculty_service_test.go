package faculty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFacultyCatalogRoundTrip(t *testing.T) {
	// given
	ctx := context.Background()
	service := NewFacultyService(NewStubFacultyRepository())

	// when: create a faculty, add a department, rename it
	created, err := service.CreateFaculty(ctx, "Engineering")
	assert.NoError(t, err)

	withDept, err := service.AddDepartment(ctx, created.ID, "CS")
	assert.NoError(t, err)
	assert.Len(t, withDept.Departments, 1)

	renamed, err := service.RenameDepartment(ctx, created.ID, withDept.Departments[0].ID, "Computer Science")
	assert.NoError(t, err)

	// then: the listing shows exactly one department with the new name
	assert.Len(t, renamed.Departments, 1)
	assert.Equal(t, "Computer Science", renamed.Departments[0].Name)

	faculties, err := service.ListFaculties(ctx)
	assert.NoError(t, err)
	assert.Len(t, faculties, 1)
	assert.Equal(t, "Engineering", faculties[0].Name)
	assert.Len(t, faculties[0].Departments, 1)
}

func TestCreateFaculty(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty name", func(t *testing.T) {
		service := NewFacultyService(NewStubFacultyRepository())

		_, err := service.CreateFaculty(ctx, "")
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		service := NewFacultyService(NewStubFacultyRepository())

		_, err := service.CreateFaculty(ctx, "Engineering")
		assert.NoError(t, err)
		_, err = service.CreateFaculty(ctx, "Engineering")
		assert.ErrorIs(t, err, ErrNameTaken)
	})
}

func TestAddDepartment(t *testing.T) {
	ctx := context.Background()

	t.Run("fails for an unknown faculty", func(t *testing.T) {
		service := NewFacultyService(NewStubFacultyRepository())

		_, err := service.AddDepartment(ctx, "missing", "Computer Science")
		assert.ErrorIs(t, err, ErrFacultyNotFound)
	})

	t.Run("departments keep insertion order", func(t *testing.T) {
		service := NewFacultyService(NewStubFacultyRepository())
		created, err := service.CreateFaculty(ctx, "Engineering")
		assert.NoError(t, err)

		_, err = service.AddDepartment(ctx, created.ID, "Computer Science")
		assert.NoError(t, err)
		faculty, err := service.AddDepartment(ctx, created.ID, "Mechanical Engineering")
		assert.NoError(t, err)

		assert.Len(t, faculty.Departments, 2)
		assert.Equal(t, "Computer Science", faculty.Departments[0].Name)
		assert.Equal(t, "Mechanical Engineering", faculty.Departments[1].Name)
	})
}

func TestRemoveDepartment(t *testing.T) {
	// given
	ctx := context.Background()
	service := NewFacultyService(NewStubFacultyRepository())
	created, err := service.CreateFaculty(ctx, "Engineering")
	assert.NoError(t, err)
	faculty, err := service.AddDepartment(ctx, created.ID, "Computer Science")
	assert.NoError(t, err)

	// when
	updated, err := service.RemoveDepartment(ctx, created.ID, faculty.Departments[0].ID)

	// then
	assert.NoError(t, err)
	assert.Empty(t, updated.Departments)
}

func TestCatalogLookups(t *testing.T) {
	ctx := context.Background()
	service := NewFacultyService(NewStubFacultyRepository())
	created, err := service.CreateFaculty(ctx, "Engineering")
	assert.NoError(t, err)
	_, err = service.AddDepartment(ctx, created.ID, "Computer Science")
	assert.NoError(t, err)

	exists, err := service.FacultyExists(ctx, "Engineering")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.FacultyExists(ctx, "Alchemy")
	assert.NoError(t, err)
	assert.False(t, exists)

	exists, err = service.DepartmentExists(ctx, "Engineering", "Computer Science")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.DepartmentExists(ctx, "Engineering", "Mathematics")
	assert.NoError(t, err)
	assert.False(t, exists)
}
