package club

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrSecretRequired = errors.New("club secret is required")

type Service interface {
	CreateClub(ctx context.Context, name, secret string) (Club, error)
	UpdateClub(ctx context.Context, id, name, secret string) (Club, error)
	DeleteClub(ctx context.Context, id string) error
	ListClubs(ctx context.Context) ([]Club, error)
	Validate(ctx context.Context, id, secret string) (bool, error)
	ValidateByName(ctx context.Context, name, secret string) (bool, error)
}

// Validator is the slice of the club registry the event store needs to
// re-check the shared secret at creation time.
type Validator interface {
	ValidateByName(ctx context.Context, name, secret string) (bool, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewClubService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateClub(ctx context.Context, name, secret string) (Club, error) {
	if secret == "" {
		return Club{}, ErrSecretRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return Club{}, fmt.Errorf("failed to hash club secret: %w", err)
	}
	return s.repo.CreateClub(ctx, Club{
		ID:         uuid.NewString(),
		Name:       name,
		SecretHash: string(hash),
	})
}

// UpdateClub renames a club; the secret is rehashed only when a new one is
// supplied.
func (s *ServiceImpl) UpdateClub(ctx context.Context, id, name, secret string) (Club, error) {
	club, err := s.repo.GetClub(ctx, id)
	if err != nil {
		return Club{}, err
	}
	club.Name = name
	if secret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return Club{}, fmt.Errorf("failed to hash club secret: %w", err)
		}
		club.SecretHash = string(hash)
	}
	return s.repo.UpdateClub(ctx, club)
}

func (s *ServiceImpl) DeleteClub(ctx context.Context, id string) error {
	return s.repo.DeleteClub(ctx, id)
}

func (s *ServiceImpl) ListClubs(ctx context.Context) ([]Club, error) {
	return s.repo.ListClubs(ctx)
}

// Validate checks a caller-supplied secret against the stored hash. The
// result is advisory: event creation re-validates server-side.
func (s *ServiceImpl) Validate(ctx context.Context, id, secret string) (bool, error) {
	club, err := s.repo.GetClub(ctx, id)
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(club.SecretHash), []byte(secret)) == nil, nil
}

func (s *ServiceImpl) ValidateByName(ctx context.Context, name, secret string) (bool, error) {
	club, err := s.repo.GetClubByName(ctx, name)
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(club.SecretHash), []byte(secret)) == nil, nil
}
