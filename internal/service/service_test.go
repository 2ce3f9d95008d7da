package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/Shivanand-hulikatti/club-booking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	bookings []model.Booking
	err      error
}

func (p *fakePublisher) PublishBooking(_ context.Context, b model.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bookings = append(p.bookings, b)
	return p.err
}

func (p *fakePublisher) published() []model.Booking {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Booking(nil), p.bookings...)
}

func newTestService(t *testing.T) (*ClubService, *repository.MemoryStore, *fakePublisher) {
	t.Helper()
	store := repository.NewMemoryStore(
		[]model.Club{
			{Name: "Rich Club", Email: "rich@club.com", Points: 50},
			{Name: "Poor Club", Email: "poor@club.com", Points: 2},
			{Name: "Tied Club", Email: "tied@club.com", Points: 50},
		},
		[]model.Competition{
			{Name: "Big Competition", Date: testNow.Add(72 * time.Hour), SpotsAvailable: 30},
			{Name: "Old Competition", Date: testNow.Add(-72 * time.Hour), SpotsAvailable: 30},
		},
	)
	pub := &fakePublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewClubService(store, pub, logger, WithClock(func() time.Time { return testNow }))
	return svc, store, pub
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	club, err := svc.Login(ctx, "  rich@club.com ")
	require.NoError(t, err)
	assert.Equal(t, "Rich Club", club.Name)

	_, err = svc.Login(ctx, "")
	assert.ErrorIs(t, err, repository.ErrClubNotFound)

	_, err = svc.Login(ctx, "nobody@club.com")
	assert.ErrorIs(t, err, repository.ErrClubNotFound)
}

func TestPointsBoard_SortedStable(t *testing.T) {
	svc, _, _ := newTestService(t)

	clubs, err := svc.PointsBoard(context.Background())

	require.NoError(t, err)
	require.Len(t, clubs, 3)
	assert.Equal(t, "rich@club.com", clubs[0].Email)
	assert.Equal(t, "tied@club.com", clubs[1].Email)
	assert.Equal(t, "poor@club.com", clubs[2].Email)
}

func TestCompetition_BlankName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Competition(context.Background(), " ")

	assert.ErrorIs(t, err, repository.ErrCompetitionNotFound)
}

func TestBook_Success(t *testing.T) {
	svc, store, pub := newTestService(t)
	ctx := context.Background()

	res, err := svc.Book(ctx, "rich@club.com", "Big Competition", "12")

	require.NoError(t, err)
	require.NotNil(t, res.Booking)
	assert.Equal(t, 38, res.Club.Points)
	assert.Equal(t, 18, res.Competition.SpotsAvailable)
	assert.Equal(t, 12, res.Booking.Spots)
	assert.NotEmpty(t, res.Booking.ID)

	club, _ := store.FindClubByEmail(ctx, "rich@club.com")
	comp, _ := store.FindCompetitionByName(ctx, "Big Competition")
	assert.Equal(t, 38, club.Points)
	assert.Equal(t, 18, comp.SpotsAvailable)

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, res.Booking.ID, events[0].ID)
}

func TestBook_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		competition string
		spots       string
		wantErr     error
	}{
		{name: "over limit", email: "rich@club.com", competition: "Big Competition", spots: "13", wantErr: ErrExceedsBookingLimit},
		{name: "not enough points", email: "poor@club.com", competition: "Big Competition", spots: "5", wantErr: ErrInsufficientPoints},
		{name: "past competition", email: "rich@club.com", competition: "Old Competition", spots: "1", wantErr: ErrPastCompetition},
		{name: "past wins over bad input", email: "rich@club.com", competition: "Old Competition", spots: "abc", wantErr: ErrPastCompetition},
		{name: "non numeric", email: "rich@club.com", competition: "Big Competition", spots: "abc", wantErr: ErrInvalidSpots},
		{name: "empty", email: "rich@club.com", competition: "Big Competition", spots: "", wantErr: ErrInvalidSpots},
		{name: "zero", email: "rich@club.com", competition: "Big Competition", spots: "0", wantErr: ErrInvalidSpots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, pub := newTestService(t)
			ctx := context.Background()
			before, _ := store.FindClubByEmail(ctx, tt.email)

			res, err := svc.Book(ctx, tt.email, tt.competition, tt.spots)

			require.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, res)
			assert.Nil(t, res.Booking)
			assert.Equal(t, before.Points, res.Club.Points)
			assert.Equal(t, 30, res.Competition.SpotsAvailable)
			assert.Empty(t, pub.published())
		})
	}
}

func TestBook_RepeatedRejectionLeavesStateUnchanged(t *testing.T) {
	attempts := []struct {
		name        string
		competition string
		spots       string
		wantErr     error
	}{
		{name: "over limit", competition: "Big Competition", spots: "13", wantErr: ErrExceedsBookingLimit},
		{name: "past competition", competition: "Old Competition", spots: "1", wantErr: ErrPastCompetition},
	}

	for _, tt := range attempts {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, pub := newTestService(t)
			ctx := context.Background()
			clubsBefore, err := store.ListClubs(ctx)
			require.NoError(t, err)
			compsBefore, err := store.ListCompetitions(ctx)
			require.NoError(t, err)

			for i := 0; i < 2; i++ {
				_, err := svc.Book(ctx, "rich@club.com", tt.competition, tt.spots)
				require.ErrorIs(t, err, tt.wantErr)

				clubs, err := store.ListClubs(ctx)
				require.NoError(t, err)
				comps, err := store.ListCompetitions(ctx)
				require.NoError(t, err)
				assert.Equal(t, clubsBefore, clubs, "attempt %d", i+1)
				assert.Equal(t, compsBefore, comps, "attempt %d", i+1)
			}
			assert.Empty(t, pub.published())
		})
	}
}

func TestPointsBoard_MalformedKeepsProviderOrder(t *testing.T) {
	store := repository.NewMemoryStore(
		[]model.Club{
			{Name: "Low Club", Email: "low@club.com", Points: 1},
			{Name: "Odd Club", Email: "odd@club.com", RawPoints: "lots"},
			{Name: "High Club", Email: "high@club.com", Points: 40},
		},
		[]model.Competition{{Name: "Big Competition", Date: testNow.Add(72 * time.Hour), SpotsAvailable: 30}},
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewClubService(store, &fakePublisher{}, logger, WithClock(func() time.Time { return testNow }))
	ctx := context.Background()

	clubs, err := svc.PointsBoard(ctx)
	require.NoError(t, err)
	require.Len(t, clubs, 3)
	assert.Equal(t, "low@club.com", clubs[0].Email)
	assert.Equal(t, "odd@club.com", clubs[1].Email)
	assert.Equal(t, "high@club.com", clubs[2].Email)

	res, err := svc.Book(ctx, "odd@club.com", "Big Competition", "1")
	require.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 30, res.Competition.SpotsAvailable)
	assert.Equal(t, "lots", res.Club.RawPoints)
}

func TestBook_UnknownEntities(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Book(ctx, "rich@club.com", "Nope", "1")
	assert.ErrorIs(t, err, repository.ErrCompetitionNotFound)
	assert.Nil(t, res)

	res, err = svc.Book(ctx, "nobody@club.com", "Big Competition", "1")
	assert.ErrorIs(t, err, repository.ErrClubNotFound)
	assert.Nil(t, res)
}

func TestBook_PublishFailureStillBooks(t *testing.T) {
	svc, store, pub := newTestService(t)
	pub.err = errors.New("broker down")
	ctx := context.Background()

	res, err := svc.Book(ctx, "rich@club.com", "Big Competition", "3")

	require.NoError(t, err)
	assert.Equal(t, 47, res.Club.Points)
	club, _ := store.FindClubByEmail(ctx, "rich@club.com")
	assert.Equal(t, 47, club.Points)
}

func TestBook_Concurrent(t *testing.T) {
	svc, store, pub := newTestService(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(ctx, "rich@club.com", "Big Competition", strconv.Itoa(2))
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	comp, _ := store.FindCompetitionByName(ctx, "Big Competition")
	club, _ := store.FindClubByEmail(ctx, "rich@club.com")
	assert.Equal(t, 15, success)
	assert.Equal(t, 0, comp.SpotsAvailable)
	assert.Equal(t, 20, club.Points)
	assert.Len(t, pub.published(), 15)
}
