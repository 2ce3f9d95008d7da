package service

import (
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func futureComp(spots int) model.Competition {
	return model.Competition{Name: "Big Competition", Date: testNow.Add(48 * time.Hour), SpotsAvailable: spots}
}

func TestAttemptBooking(t *testing.T) {
	tests := []struct {
		name       string
		points     int
		available  int
		date       time.Time
		spots      int
		wantErr    error
		wantPoints int
		wantSpots  int
	}{
		{name: "success", points: 50, available: 30, spots: 12, wantPoints: 38, wantSpots: 18},
		{name: "exactly all points", points: 5, available: 30, spots: 5, wantPoints: 0, wantSpots: 25},
		{name: "exactly all spots", points: 50, available: 3, spots: 3, wantPoints: 47, wantSpots: 0},
		{name: "over limit", points: 50, available: 30, spots: 13, wantErr: ErrExceedsBookingLimit},
		{name: "not enough points", points: 2, available: 30, spots: 5, wantErr: ErrInsufficientPoints},
		{name: "not enough spots", points: 50, available: 2, spots: 5, wantErr: ErrNotEnoughSpots},
		{name: "zero spots", points: 50, available: 30, spots: 0, wantErr: ErrInvalidSpots},
		{name: "negative spots", points: 50, available: 30, spots: -1, wantErr: ErrInvalidSpots},
		{name: "past competition", points: 50, available: 30, spots: 1, date: testNow.Add(-time.Hour), wantErr: ErrPastCompetition},
		{name: "past wins over limit", points: 50, available: 30, spots: 13, date: testNow.Add(-time.Hour), wantErr: ErrPastCompetition},
		{name: "limit wins over points", points: 2, available: 30, spots: 13, wantErr: ErrExceedsBookingLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			club := model.Club{Name: "Rich Club", Email: "rich@club.com", Points: tt.points}
			comp := futureComp(tt.available)
			if !tt.date.IsZero() {
				comp.Date = tt.date
			}

			gotClub, gotComp, err := AttemptBooking(club, comp, tt.spots, testNow)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, club, gotClub)
				assert.Equal(t, comp, gotComp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, gotClub.Points)
			assert.Equal(t, tt.wantSpots, gotComp.SpotsAvailable)
		})
	}
}

func TestAttemptBooking_ExactStartIsNotPast(t *testing.T) {
	comp := model.Competition{Name: "Now", Date: testNow, SpotsAvailable: 5}

	_, _, err := AttemptBooking(model.Club{Points: 5}, comp, 1, testNow)

	assert.NoError(t, err)
}

func TestAttemptBooking_DoesNotMutateInputs(t *testing.T) {
	club := model.Club{Email: "rich@club.com", Points: 50}
	comp := futureComp(30)

	_, _, err := AttemptBooking(club, comp, 12, testNow)

	require.NoError(t, err)
	assert.Equal(t, 50, club.Points)
	assert.Equal(t, 30, comp.SpotsAvailable)
}

func TestParseSpots(t *testing.T) {
	n, err := ParseSpots(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	for _, raw := range []string{"", "abc", "1.5", "0", "-3"} {
		_, err := ParseSpots(raw)
		assert.ErrorIs(t, err, ErrInvalidSpots, raw)
	}
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(ErrPastCompetition))
	assert.True(t, IsRejection(ErrNotEnoughSpots))

	_, err := ParseSpots("abc")
	assert.True(t, IsRejection(err))

	assert.False(t, IsRejection(nil))
	assert.False(t, IsRejection(assert.AnError))
}
