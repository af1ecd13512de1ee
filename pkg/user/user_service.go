package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/univent/univent/internal/auth"
	"github.com/univent/univent/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrRoleInvalid            = errors.New("invalid role selected")
	ErrEmailInvalid           = errors.New("invalid email address")
	ErrFacultyRequired        = errors.New("faculty is required for this role")
	ErrDepartmentRequired     = errors.New("department is required for this role")
	ErrFacultyUnknown         = errors.New("faculty not found")
	ErrDepartmentUnknown      = errors.New("department not found in selected faculty")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPasswordAlreadyChanged = errors.New("password already changed")
)

// emailPattern is deliberately loose: anything shaped like user@host.tld
// passes, and signin is keyed on the exact stored string. Tightening it
// would lock out accounts registered under the looser shape.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Catalog is the slice of the faculty catalog the directory needs to check
// signup references against.
type Catalog interface {
	FacultyExists(ctx context.Context, name string) (bool, error)
	DepartmentExists(ctx context.Context, facultyName, departmentName string) (bool, error)
}

type Service interface {
	SignUp(ctx context.Context, user User, password string) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	ChangePassword(ctx context.Context, password string) error
	GetUser(ctx context.Context, id string) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user User, newPassword string) (User, error)
	DeleteUser(ctx context.Context, id string) error
	TouchLastActive(ctx context.Context, email string) error
}

type ServiceImpl struct {
	repo    Repo
	catalog Catalog
	clock   utils.Clock
}

func NewUserService(repo Repo, catalog Catalog) *ServiceImpl {
	return &ServiceImpl{repo: repo, catalog: catalog, clock: utils.SystemClock{}}
}

// validateAccount checks the account against the per-role requiredness table
// and verifies faculty/department references against the catalog. Fields the
// role does not require are cleared so a role change cannot carry stale
// references.
func (s *ServiceImpl) validateAccount(ctx context.Context, user User) (User, error) {
	if !user.Role.IsValid() {
		return User{}, ErrRoleInvalid
	}
	if !emailPattern.MatchString(user.Email) {
		return User{}, ErrEmailInvalid
	}

	required := RequiredFields(user.Role)
	if required.Faculty {
		if user.Faculty == "" {
			return User{}, ErrFacultyRequired
		}
		exists, err := s.catalog.FacultyExists(ctx, user.Faculty)
		if err != nil {
			return User{}, fmt.Errorf("failed to check faculty: %w", err)
		}
		if !exists {
			return User{}, ErrFacultyUnknown
		}
	} else {
		user.Faculty = ""
	}
	if required.Department {
		if user.Department == "" {
			return User{}, ErrDepartmentRequired
		}
		exists, err := s.catalog.DepartmentExists(ctx, user.Faculty, user.Department)
		if err != nil {
			return User{}, fmt.Errorf("failed to check department: %w", err)
		}
		if !exists {
			return User{}, ErrDepartmentUnknown
		}
	} else {
		user.Department = ""
	}
	return user, nil
}

// SignUp validates the account and stores it with a bcrypt credential hash.
func (s *ServiceImpl) SignUp(ctx context.Context, user User, password string) (User, error) {
	user, err := s.validateAccount(ctx, user)
	if err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	user.ID = uuid.NewString()
	user.PasswordHash = string(hash)
	user.PasswordChanged = false
	user.CreatedAt = s.clock.Now()

	return s.repo.CreateUser(ctx, user)
}

func (s *ServiceImpl) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword updates the caller's credential. It is a one-time operation:
// once PasswordChanged is set the request is refused.
func (s *ServiceImpl) ChangePassword(ctx context.Context, password string) error {
	userID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordChanged {
		return ErrPasswordAlreadyChanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.PasswordChanged = true
	_, err = s.repo.UpdateUser(ctx, user)
	return err
}

func (s *ServiceImpl) GetUser(ctx context.Context, id string) (User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *ServiceImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	return s.repo.GetAllUsers(ctx)
}

// UpdateUser applies an administrator edit. Empty faculty/department keep the
// stored values; a non-empty newPassword is rehashed. The merged account goes
// through the same validation as signup, so a role change still has to meet
// the new role's requiredness.
func (s *ServiceImpl) UpdateUser(ctx context.Context, user User, newPassword string) (User, error) {
	stored, err := s.repo.GetUser(ctx, user.ID)
	if err != nil {
		return User{}, err
	}

	stored.Username = user.Username
	stored.Email = user.Email
	stored.Role = user.Role
	if user.Faculty != "" {
		stored.Faculty = user.Faculty
	}
	if user.Department != "" {
		stored.Department = user.Department
	}
	stored, err = s.validateAccount(ctx, stored)
	if err != nil {
		return User{}, err
	}
	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		stored.PasswordHash = string(hash)
	}
	return s.repo.UpdateUser(ctx, stored)
}

func (s *ServiceImpl) DeleteUser(ctx context.Context, id string) error {
	log.Debugf("deleting user %s", id)
	return s.repo.DeleteUser(ctx, id)
}

func (s *ServiceImpl) TouchLastActive(ctx context.Context, email string) error {
	return s.repo.SetLastActive(ctx, email, s.clock.Now())
}
