package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
)

// MaxSpotsPerBooking caps a single booking regardless of club or competition.
const MaxSpotsPerBooking = 12

// Booking rejections. The first failing check wins, in the order listed.
var (
	ErrPastCompetition     = errors.New("competition has already taken place")
	ErrInvalidSpots        = errors.New("number of spots must be a positive integer")
	ErrExceedsBookingLimit = fmt.Errorf("cannot book more than %d spots per booking", MaxSpotsPerBooking)
	ErrInsufficientPoints  = errors.New("not enough points")
	ErrNotEnoughSpots      = errors.New("not enough spots left")
)

// ParseSpots converts untrusted form input into a spot count.
func ParseSpots(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpots, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSpots, n)
	}
	return n, nil
}

// AttemptBooking applies the booking rule. On success both counters drop by
// spots; on rejection the inputs are returned unchanged with the reason.
func AttemptBooking(club model.Club, comp model.Competition, spots int, now time.Time) (model.Club, model.Competition, error) {
	switch {
	case comp.IsPast(now):
		return club, comp, ErrPastCompetition
	case spots <= 0:
		return club, comp, ErrInvalidSpots
	case spots > MaxSpotsPerBooking:
		return club, comp, ErrExceedsBookingLimit
	case spots > club.Points:
		return club, comp, ErrInsufficientPoints
	case spots > comp.SpotsAvailable:
		return club, comp, ErrNotEnoughSpots
	}

	club.Points -= spots
	comp.SpotsAvailable -= spots
	return club, comp, nil
}

// IsRejection reports whether err is one of the booking rule rejections.
func IsRejection(err error) bool {
	return errors.Is(err, ErrPastCompetition) ||
		errors.Is(err, ErrInvalidSpots) ||
		errors.Is(err, ErrExceedsBookingLimit) ||
		errors.Is(err, ErrInsufficientPoints) ||
		errors.Is(err, ErrNotEnoughSpots)
}
