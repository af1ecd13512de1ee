package user

import (
	"context"
	"time"
)

type StubUserRepository struct {
	data map[string]User
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{data: map[string]User{}}
}

func (s *StubUserRepository) Cleanup() {
	s.data = map[string]User{}
}

func (s *StubUserRepository) CreateUser(ctx context.Context, user User) (User, error) {
	for _, existing := range s.data {
		if existing.Email == user.Email {
			return User{}, ErrEmailTaken
		}
	}
	s.data[user.ID] = user
	return user, nil
}

func (s *StubUserRepository) GetUser(ctx context.Context, id string) (User, error) {
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	for _, user := range s.data {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) UpdateUser(ctx context.Context, user User) (User, error) {
	if _, ok := s.data[user.ID]; !ok {
		return User{}, ErrUserNotFound
	}
	s.data[user.ID] = user
	return user, nil
}

func (s *StubUserRepository) DeleteUser(ctx context.Context, id string) error {
	if _, ok := s.data[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *StubUserRepository) GetAllUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(s.data))
	for _, user := range s.data {
		users = append(users, user)
	}
	return users, nil
}

func (s *StubUserRepository) SetLastActive(ctx context.Context, email string, at time.Time) error {
	for id, user := range s.data {
		if user.Email == email {
			user.LastActive = at
			s.data[id] = user
			return nil
		}
	}
	return ErrUserNotFound
}
