package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a list-backed Store. Records are copied in and out so callers
// never hold a live reference to stored state.
type MemoryStore struct {
	mu           sync.RWMutex
	clubs        []model.Club
	competitions []model.Competition
}

// NewMemoryStore constructs a MemoryStore holding copies of the given records.
func NewMemoryStore(clubs []model.Club, competitions []model.Competition) *MemoryStore {
	return &MemoryStore{
		clubs:        append([]model.Club(nil), clubs...),
		competitions: append([]model.Competition(nil), competitions...),
	}
}

// FindClubByEmail returns the first club with the given email.
func (s *MemoryStore) FindClubByEmail(_ context.Context, email string) (*model.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.clubIndex(email)
	if i < 0 {
		return nil, ErrClubNotFound
	}
	c := s.clubs[i]
	return &c, nil
}

// FindCompetitionByName returns the first competition with the given name.
func (s *MemoryStore) FindCompetitionByName(_ context.Context, name string) (*model.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.competitionIndex(name)
	if i < 0 {
		return nil, ErrCompetitionNotFound
	}
	c := s.competitions[i]
	return &c, nil
}

// ListClubs returns all clubs in provider order.
func (s *MemoryStore) ListClubs(_ context.Context) ([]model.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Club(nil), s.clubs...), nil
}

// ListCompetitions returns all competitions in provider order.
func (s *MemoryStore) ListCompetitions(_ context.Context) ([]model.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Competition(nil), s.competitions...), nil
}

// SaveClub replaces the first club with the same email.
func (s *MemoryStore) SaveClub(_ context.Context, club model.Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.clubIndex(club.Email)
	if i < 0 {
		return fmt.Errorf("save club %q: %w", club.Email, ErrClubNotFound)
	}
	s.clubs[i] = club
	return nil
}

// SaveCompetition replaces the first competition with the same name.
func (s *MemoryStore) SaveCompetition(_ context.Context, comp model.Competition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.competitionIndex(comp.Name)
	if i < 0 {
		return fmt.Errorf("save competition %q: %w", comp.Name, ErrCompetitionNotFound)
	}
	s.competitions[i] = comp
	return nil
}

// UpdateBooking holds the write lock across the whole read-check-write.
func (s *MemoryStore) UpdateBooking(ctx context.Context, email, competition string, fn BookingFunc) (model.Club, model.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.Club{}, model.Competition{}, err
	}

	ci := s.competitionIndex(competition)
	if ci < 0 {
		return model.Club{}, model.Competition{}, ErrCompetitionNotFound
	}
	ki := s.clubIndex(email)
	if ki < 0 {
		return model.Club{}, model.Competition{}, ErrClubNotFound
	}

	club, comp, err := fn(s.clubs[ki], s.competitions[ci])
	if err != nil {
		return s.clubs[ki], s.competitions[ci], err
	}

	s.clubs[ki] = club
	s.competitions[ci] = comp
	return club, comp, nil
}

func (s *MemoryStore) clubIndex(email string) int {
	for i := range s.clubs {
		if s.clubs[i].Email == email {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) competitionIndex(name string) int {
	for i := range s.competitions {
		if s.competitions[i].Name == name {
			return i
		}
	}
	return -1
}
