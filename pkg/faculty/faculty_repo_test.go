package faculty

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/univent/univent/internal/test_utils"

	"github.com/stretchr/testify/assert"
)

func TestRepoImpl_CreateAndGetFaculty(t *testing.T) {
	// given
	ctx := context.Background()
	repo := NewFacultyRepo(test_utils.SetupTestDB(t))
	faculty := Faculty{ID: uuid.NewString(), Name: "Engineering"}

	// when
	_, err := repo.CreateFaculty(ctx, faculty)
	assert.NoError(t, err)

	// then
	stored, err := repo.GetFaculty(ctx, faculty.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Engineering", stored.Name)
	assert.Empty(t, stored.Departments)

	byName, err := repo.GetFacultyByName(ctx, "Engineering")
	assert.NoError(t, err)
	assert.Equal(t, faculty.ID, byName.ID)

	_, err = repo.CreateFaculty(ctx, Faculty{ID: uuid.NewString(), Name: "Engineering"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestRepoImpl_Departments(t *testing.T) {
	// given
	ctx := context.Background()
	repo := NewFacultyRepo(test_utils.SetupTestDB(t))
	faculty := Faculty{ID: uuid.NewString(), Name: "Engineering"}
	_, err := repo.CreateFaculty(ctx, faculty)
	assert.NoError(t, err)

	// when: departments are added in order
	cs := Department{ID: uuid.NewString(), Name: "Computer Science"}
	mech := Department{ID: uuid.NewString(), Name: "Mechanical Engineering"}
	assert.NoError(t, repo.AddDepartment(ctx, faculty.ID, cs))
	assert.NoError(t, repo.AddDepartment(ctx, faculty.ID, mech))

	// then: positions are preserved
	stored, err := repo.GetFaculty(ctx, faculty.ID)
	assert.NoError(t, err)
	assert.Len(t, stored.Departments, 2)
	assert.Equal(t, "Computer Science", stored.Departments[0].Name)
	assert.Equal(t, "Mechanical Engineering", stored.Departments[1].Name)

	// rename and remove
	assert.NoError(t, repo.RenameDepartment(ctx, faculty.ID, cs.ID, "Computing"))
	assert.NoError(t, repo.RemoveDepartment(ctx, faculty.ID, mech.ID))

	stored, err = repo.GetFaculty(ctx, faculty.ID)
	assert.NoError(t, err)
	assert.Len(t, stored.Departments, 1)
	assert.Equal(t, "Computing", stored.Departments[0].Name)
}

func TestRepoImpl_DeleteFaculty(t *testing.T) {
	ctx := context.Background()
	repo := NewFacultyRepo(test_utils.SetupTestDB(t))
	faculty := Faculty{ID: uuid.NewString(), Name: "Engineering"}
	_, err := repo.CreateFaculty(ctx, faculty)
	assert.NoError(t, err)
	assert.NoError(t, repo.AddDepartment(ctx, faculty.ID, Department{ID: uuid.NewString(), Name: "Computer Science"}))

	// deleting the faculty removes its departments as well
	assert.NoError(t, repo.DeleteFaculty(ctx, faculty.ID))

	_, err = repo.GetFaculty(ctx, faculty.ID)
	assert.ErrorIs(t, err, ErrFacultyNotFound)

	err = repo.DeleteFaculty(ctx, faculty.ID)
	assert.ErrorIs(t, err, ErrFacultyNotFound)
}
