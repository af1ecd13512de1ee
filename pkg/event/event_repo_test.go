package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/univent/univent/internal/test_utils"
	"github.com/univent/univent/pkg/user"

	"github.com/stretchr/testify/assert"
)

func setupTestRepository(t *testing.T) (context.Context, *RepoImpl, *user.RepoImpl) {
	t.Helper()
	db := test_utils.SetupTestDB(t)
	return context.Background(), NewEventRepo(db), user.NewUserRepo(db)
}

func storedUser(t *testing.T, users *user.RepoImpl, role user.Role) user.User {
	t.Helper()
	u := user.User{
		ID:        uuid.NewString(),
		Username:  "creator",
		Email:     uuid.NewString() + "@example.edu",
		Role:      role,
		CreatedAt: time.Now(),
	}
	created, err := users.CreateUser(context.Background(), u)
	assert.NoError(t, err)
	return created
}

func storedEvent(creatorID string) Event {
	return Event{
		ID:          uuid.NewString(),
		Name:        "Open Day",
		Date:        time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC),
		TimeOfDay:   "10:00",
		Venue:       "Main Hall",
		Description: "Campus open day",
		CreatorID:   creatorID,
		Faculty:     "Engineering",
		Department:  "Computer Science",
		Files:       []string{"https://storage.example.com/a.pdf", "https://storage.example.com/b.docx"},
		HOD:         Gate{Status: StatusPending},
		Dean:        Gate{Status: StatusPending},
		VC:          Gate{Status: StatusPending},
		CreatedAt:   time.Now().Truncate(time.Second),
	}
}

func TestRepoImpl_CreateAndGetEvent(t *testing.T) {
	// given
	ctx, repo, users := setupTestRepository(t)
	creator := storedUser(t, users, user.RoleStudent)
	event := storedEvent(creator.ID)

	// when
	_, err := repo.CreateEvent(ctx, event)
	assert.NoError(t, err)

	// then
	stored, err := repo.GetEvent(ctx, event.ID)
	assert.NoError(t, err)
	assert.Equal(t, event.Name, stored.Name)
	assert.Equal(t, event.Date.Unix(), stored.Date.Unix())
	assert.Equal(t, event.Files, stored.Files)
	assert.Equal(t, StatusPending, stored.HOD.Status)
	assert.Equal(t, user.RoleStudent, stored.CreatorRole)
}

func TestRepoImpl_GetEvent_NotFound(t *testing.T) {
	ctx, repo, _ := setupTestRepository(t)

	_, err := repo.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepoImpl_SetGate(t *testing.T) {
	// given
	ctx, repo, users := setupTestRepository(t)
	creator := storedUser(t, users, user.RoleStudent)
	event := storedEvent(creator.ID)
	_, err := repo.CreateEvent(ctx, event)
	assert.NoError(t, err)

	// when
	err = repo.SetGate(ctx, event.ID, GateDean, StatusRejected, "venue conflict")
	assert.NoError(t, err)

	// then: only the dean gate changed
	stored, err := repo.GetEvent(ctx, event.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Dean.Status)
	assert.Equal(t, "venue conflict", stored.Dean.Reason)
	assert.Equal(t, StatusPending, stored.HOD.Status)
	assert.Equal(t, StatusPending, stored.VC.Status)
}

func TestRepoImpl_SetGate_UnknownEvent(t *testing.T) {
	ctx, repo, _ := setupTestRepository(t)

	err := repo.SetGate(ctx, "missing", GateHOD, StatusApproved, "")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepoImpl_UpdateDetails(t *testing.T) {
	// given
	ctx, repo, users := setupTestRepository(t)
	creator := storedUser(t, users, user.RoleStudent)
	event := storedEvent(creator.ID)
	_, err := repo.CreateEvent(ctx, event)
	assert.NoError(t, err)

	// when
	event.Name = "Open Day v2"
	event.Venue = "Sports Hall"
	err = repo.UpdateDetails(ctx, event)
	assert.NoError(t, err)

	// then
	stored, err := repo.GetEvent(ctx, event.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Open Day v2", stored.Name)
	assert.Equal(t, "Sports Hall", stored.Venue)
}

func TestRepoImpl_DeleteEvent(t *testing.T) {
	ctx, repo, users := setupTestRepository(t)
	creator := storedUser(t, users, user.RoleStudent)
	event := storedEvent(creator.ID)
	_, err := repo.CreateEvent(ctx, event)
	assert.NoError(t, err)

	err = repo.DeleteEvent(ctx, event.ID)
	assert.NoError(t, err)

	_, err = repo.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepoImpl_Queues(t *testing.T) {
	// given: two events in different departments, one HOD-approved
	ctx, repo, users := setupTestRepository(t)
	student := storedUser(t, users, user.RoleStudent)
	hod := storedUser(t, users, user.RoleHeadOfDepartment)

	csEvent := storedEvent(student.ID)
	_, err := repo.CreateEvent(ctx, csEvent)
	assert.NoError(t, err)

	mathEvent := storedEvent(student.ID)
	mathEvent.Faculty = "Science"
	mathEvent.Department = "Mathematics"
	_, err = repo.CreateEvent(ctx, mathEvent)
	assert.NoError(t, err)

	// department queue sees only the matching pending event
	queue, err := repo.DepartmentQueue(ctx, "Computer Science", hod.ID)
	assert.NoError(t, err)
	assert.Len(t, queue, 1)
	assert.Equal(t, csEvent.ID, queue[0].ID)

	// the creator's own events are excluded
	queue, err = repo.DepartmentQueue(ctx, "Computer Science", student.ID)
	assert.NoError(t, err)
	assert.Empty(t, queue)

	// faculty queue is empty until the HOD approves
	queue, err = repo.FacultyQueue(ctx, "Engineering", hod.ID)
	assert.NoError(t, err)
	assert.Empty(t, queue)

	err = repo.SetGate(ctx, csEvent.ID, GateHOD, StatusApproved, "")
	assert.NoError(t, err)

	queue, err = repo.FacultyQueue(ctx, "Engineering", hod.ID)
	assert.NoError(t, err)
	assert.Len(t, queue, 1)

	// chancellor queue needs the dean as well
	queue, err = repo.ChancellorQueue(ctx, hod.ID)
	assert.NoError(t, err)
	assert.Empty(t, queue)

	err = repo.SetGate(ctx, csEvent.ID, GateDean, StatusApproved, "")
	assert.NoError(t, err)

	queue, err = repo.ChancellorQueue(ctx, hod.ID)
	assert.NoError(t, err)
	assert.Len(t, queue, 1)

	// published only after all three gates
	published, err := repo.ListPublished(ctx)
	assert.NoError(t, err)
	assert.Empty(t, published)

	err = repo.SetGate(ctx, csEvent.ID, GateVC, StatusApproved, "")
	assert.NoError(t, err)

	published, err = repo.ListPublished(ctx)
	assert.NoError(t, err)
	assert.Len(t, published, 1)
	assert.Equal(t, csEvent.ID, published[0].ID)
}
