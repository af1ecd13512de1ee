package club

import "context"

type StubClubRepository struct {
	data map[string]Club
}

func NewStubClubRepository() *StubClubRepository {
	return &StubClubRepository{data: map[string]Club{}}
}

func (s *StubClubRepository) Cleanup() {
	s.data = map[string]Club{}
}

func (s *StubClubRepository) CreateClub(ctx context.Context, club Club) (Club, error) {
	for _, existing := range s.data {
		if existing.Name == club.Name {
			return Club{}, ErrNameTaken
		}
	}
	s.data[club.ID] = club
	return club, nil
}

func (s *StubClubRepository) GetClub(ctx context.Context, id string) (Club, error) {
	club, ok := s.data[id]
	if !ok {
		return Club{}, ErrClubNotFound
	}
	return club, nil
}

func (s *StubClubRepository) GetClubByName(ctx context.Context, name string) (Club, error) {
	for _, club := range s.data {
		if club.Name == name {
			return club, nil
		}
	}
	return Club{}, ErrClubNotFound
}

func (s *StubClubRepository) UpdateClub(ctx context.Context, club Club) (Club, error) {
	if _, ok := s.data[club.ID]; !ok {
		return Club{}, ErrClubNotFound
	}
	s.data[club.ID] = club
	return club, nil
}

func (s *StubClubRepository) DeleteClub(ctx context.Context, id string) error {
	if _, ok := s.data[id]; !ok {
		return ErrClubNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *StubClubRepository) ListClubs(ctx context.Context) ([]Club, error) {
	clubs := make([]Club, 0, len(s.data))
	for _, club := range s.data {
		clubs = append(clubs, club)
	}
	return clubs, nil
}
