// Package model defines the core domain types for the club booking system.
package model

import "time"

// Club is a registered club that spends points to book competition spots.
// RawPoints holds the provider value when it was not an integer; such a club
// has no bookable points.
type Club struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Points    int    `json:"points"`
	RawPoints string `json:"raw_points,omitempty"`
}

// PointsMalformed reports whether the provider's points value was not numeric.
func (c Club) PointsMalformed() bool {
	return c.RawPoints != ""
}

// Competition is a dated event with a finite number of spots.
type Competition struct {
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	SpotsAvailable int       `json:"spots_available"`
}

// IsPast reports whether the competition started strictly before now.
func (c Competition) IsPast(now time.Time) bool {
	return c.Date.Before(now)
}

// Booking is the receipt of a successful booking.
type Booking struct {
	ID          string    `json:"booking_id"`
	ClubEmail   string    `json:"club_email"`
	ClubName    string    `json:"club_name"`
	Competition string    `json:"competition"`
	Spots       int       `json:"spots"`
	PointsLeft  int       `json:"points_left"`
	SpotsLeft   int       `json:"spots_left"`
	BookedAt    time.Time `json:"booked_at"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
