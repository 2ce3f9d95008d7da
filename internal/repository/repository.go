// Package repository implements the data provider for clubs and competitions.
// Both backends keep provider order: listings and find-first lookups follow
// the order in which records were loaded.
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
)

// ErrClubNotFound is returned when no club matches an email.
var ErrClubNotFound = errors.New("club not found")

// ErrCompetitionNotFound is returned when no competition matches a name.
var ErrCompetitionNotFound = errors.New("competition not found")

// BookingFunc decides a booking against fresh copies of the club and the
// competition. Returning an error aborts the update and nothing is written.
type BookingFunc func(club model.Club, comp model.Competition) (model.Club, model.Competition, error)

// Store is the data provider used by the service layer.
type Store interface {
	FindClubByEmail(ctx context.Context, email string) (*model.Club, error)
	FindCompetitionByName(ctx context.Context, name string) (*model.Competition, error)
	ListClubs(ctx context.Context) ([]model.Club, error)
	ListCompetitions(ctx context.Context) ([]model.Competition, error)
	SaveClub(ctx context.Context, club model.Club) error
	SaveCompetition(ctx context.Context, comp model.Competition) error

	// UpdateBooking loads the club and the competition, runs fn and persists
	// both results atomically. Concurrent calls are serialized.
	UpdateBooking(ctx context.Context, email, competition string, fn BookingFunc) (model.Club, model.Competition, error)
}
