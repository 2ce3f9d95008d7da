// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/Shivanand-hulikatti/club-booking/internal/repository"
	"github.com/google/uuid"
)

// Publisher announces completed bookings to downstream consumers.
type Publisher interface {
	PublishBooking(ctx context.Context, b model.Booking) error
}

// ClubService orchestrates login, listings and bookings.
type ClubService struct {
	store     repository.Store
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes a ClubService.
type Option func(*ClubService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *ClubService) { s.now = now }
}

// NewClubService constructs a ClubService with its dependencies.
func NewClubService(store repository.Store, publisher Publisher, logger *slog.Logger, opts ...Option) *ClubService {
	s := &ClubService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *ClubService) Now() time.Time {
	return s.now()
}

// Login resolves an email to a club. Empty and unknown emails both yield
// repository.ErrClubNotFound.
func (s *ClubService) Login(ctx context.Context, email string) (*model.Club, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, repository.ErrClubNotFound
	}
	club, err := s.store.FindClubByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return nil, repository.ErrClubNotFound
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	return club, nil
}

// Club re-reads a club so pages show current points.
func (s *ClubService) Club(ctx context.Context, email string) (*model.Club, error) {
	return s.store.FindClubByEmail(ctx, email)
}

// Competitions returns all competitions in provider order.
func (s *ClubService) Competitions(ctx context.Context) ([]model.Competition, error) {
	return s.store.ListCompetitions(ctx)
}

// Competition returns a single competition by name.
func (s *ClubService) Competition(ctx context.Context, name string) (*model.Competition, error) {
	if strings.TrimSpace(name) == "" {
		return nil, repository.ErrCompetitionNotFound
	}
	return s.store.FindCompetitionByName(ctx, name)
}

// PointsBoard lists clubs by points descending; ties keep provider order.
// If any club has a non-numeric points value the provider order is returned.
func (s *ClubService) PointsBoard(ctx context.Context) ([]model.Club, error) {
	clubs, err := s.store.ListClubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("points board: %w", err)
	}
	for _, c := range clubs {
		if c.PointsMalformed() {
			return clubs, nil
		}
	}
	sort.SliceStable(clubs, func(i, j int) bool {
		return clubs[i].Points > clubs[j].Points
	})
	return clubs, nil
}

// BookResult carries the state after a booking attempt. Club and Competition
// are always set when the lookup succeeded, even on rejection.
type BookResult struct {
	Booking     *model.Booking
	Club        model.Club
	Competition model.Competition
}

// Book validates rawSpots and books them for the club identified by email.
// Rule rejections are returned as errors alongside the unchanged state.
func (s *ClubService) Book(ctx context.Context, email, competition, rawSpots string) (*BookResult, error) {
	// Unparsable input still goes through the rule so that an unknown or past
	// competition is reported first.
	spots, parseErr := ParseSpots(rawSpots)

	now := s.now()
	club, comp, err := s.store.UpdateBooking(ctx, email, competition,
		func(c model.Club, p model.Competition) (model.Club, model.Competition, error) {
			c2, p2, err := AttemptBooking(c, p, spots, now)
			if errors.Is(err, ErrInvalidSpots) && parseErr != nil {
				return c, p, parseErr
			}
			return c2, p2, err
		})
	if err != nil {
		if IsRejection(err) {
			s.logger.InfoContext(ctx, "booking rejected",
				"club", email,
				"competition", competition,
				"spots", rawSpots,
				"reason", err.Error(),
			)
			return &BookResult{Club: club, Competition: comp}, err
		}
		if errors.Is(err, repository.ErrClubNotFound) || errors.Is(err, repository.ErrCompetitionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("book spots: %w", err)
	}

	booking := &model.Booking{
		ID:          uuid.New().String(),
		ClubEmail:   club.Email,
		ClubName:    club.Name,
		Competition: comp.Name,
		Spots:       spots,
		PointsLeft:  club.Points,
		SpotsLeft:   comp.SpotsAvailable,
		BookedAt:    now.UTC(),
	}

	s.logger.InfoContext(ctx, "booking completed",
		"booking_id", booking.ID,
		"club", club.Email,
		"competition", comp.Name,
		"spots", spots,
		"points_left", club.Points,
		"spots_left", comp.SpotsAvailable,
	)

	// Best effort: the booking is already committed.
	if err := s.publisher.PublishBooking(ctx, *booking); err != nil {
		s.logger.ErrorContext(ctx, "publish booking event failed",
			"booking_id", booking.ID,
			"error", err,
		)
	}

	return &BookResult{Booking: booking, Club: club, Competition: comp}, nil
}
