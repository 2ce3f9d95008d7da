package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore is a Store backed by PostgreSQL. It uses pgx directly
// (no ORM). The position column carries provider order.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Import inserts the seed records when both tables are empty. It reports
// whether anything was written.
func (s *PostgresStore) Import(ctx context.Context, clubs []model.Club, competitions []model.Competition) (imported bool, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var existing int
	err = tx.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM clubs) + (SELECT COUNT(*) FROM competitions)`,
	).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("count rows: %w", err)
	}
	if existing > 0 {
		_ = tx.Rollback(ctx)
		return false, nil
	}

	for _, c := range clubs {
		if _, err = tx.Exec(ctx,
			`INSERT INTO clubs (name, email, points, raw_points) VALUES ($1, $2, $3, $4)`,
			c.Name, c.Email, c.Points, c.RawPoints,
		); err != nil {
			return false, fmt.Errorf("insert club %q: %w", c.Email, err)
		}
	}
	for _, c := range competitions {
		if _, err = tx.Exec(ctx,
			`INSERT INTO competitions (name, date, spots_available) VALUES ($1, $2, $3)`,
			c.Name, c.Date, c.SpotsAvailable,
		); err != nil {
			return false, fmt.Errorf("insert competition %q: %w", c.Name, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

// FindClubByEmail returns the first club (by position) with the given email.
func (s *PostgresStore) FindClubByEmail(ctx context.Context, email string) (*model.Club, error) {
	var c model.Club
	err := s.db.QueryRow(ctx,
		`SELECT name, email, points, raw_points
		 FROM clubs WHERE email = $1
		 ORDER BY position LIMIT 1`,
		email,
	).Scan(&c.Name, &c.Email, &c.Points, &c.RawPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("get club: %w", err)
	}
	return &c, nil
}

// FindCompetitionByName returns the first competition (by position) with the given name.
func (s *PostgresStore) FindCompetitionByName(ctx context.Context, name string) (*model.Competition, error) {
	var c model.Competition
	err := s.db.QueryRow(ctx,
		`SELECT name, date, spots_available
		 FROM competitions WHERE name = $1
		 ORDER BY position LIMIT 1`,
		name,
	).Scan(&c.Name, &c.Date, &c.SpotsAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("get competition: %w", err)
	}
	return &c, nil
}

// ListClubs returns all clubs in provider order.
func (s *PostgresStore) ListClubs(ctx context.Context) ([]model.Club, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, email, points, raw_points FROM clubs ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []model.Club
	for rows.Next() {
		var c model.Club
		if err := rows.Scan(&c.Name, &c.Email, &c.Points, &c.RawPoints); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

// ListCompetitions returns all competitions in provider order.
func (s *PostgresStore) ListCompetitions(ctx context.Context) ([]model.Competition, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, date, spots_available FROM competitions ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	defer rows.Close()

	var comps []model.Competition
	for rows.Next() {
		var c model.Competition
		if err := rows.Scan(&c.Name, &c.Date, &c.SpotsAvailable); err != nil {
			return nil, fmt.Errorf("scan competition: %w", err)
		}
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

// SaveClub writes the points of the first club with the same email.
func (s *PostgresStore) SaveClub(ctx context.Context, club model.Club) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE clubs SET name = $2, points = $3
		 WHERE position = (SELECT position FROM clubs WHERE email = $1 ORDER BY position LIMIT 1)`,
		club.Email, club.Name, club.Points,
	)
	if err != nil {
		return fmt.Errorf("save club: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save club %q: %w", club.Email, ErrClubNotFound)
	}
	return nil
}

// SaveCompetition writes the first competition with the same name.
func (s *PostgresStore) SaveCompetition(ctx context.Context, comp model.Competition) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE competitions SET date = $2, spots_available = $3
		 WHERE position = (SELECT position FROM competitions WHERE name = $1 ORDER BY position LIMIT 1)`,
		comp.Name, comp.Date, comp.SpotsAvailable,
	)
	if err != nil {
		return fmt.Errorf("save competition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save competition %q: %w", comp.Name, ErrCompetitionNotFound)
	}
	return nil
}

// UpdateBooking runs fn inside one transaction while holding both rows with
// SELECT … FOR UPDATE. Locks are taken competition first, then club.
func (s *PostgresStore) UpdateBooking(ctx context.Context, email, competition string, fn BookingFunc) (club model.Club, comp model.Competition, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return club, comp, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var compPos, clubPos int64
	err = tx.QueryRow(ctx,
		`SELECT position, name, date, spots_available
		 FROM competitions WHERE name = $1
		 ORDER BY position LIMIT 1
		 FOR UPDATE`,
		competition,
	).Scan(&compPos, &comp.Name, &comp.Date, &comp.SpotsAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return club, comp, ErrCompetitionNotFound
		}
		return club, comp, fmt.Errorf("lock competition row: %w", err)
	}

	err = tx.QueryRow(ctx,
		`SELECT position, name, email, points, raw_points
		 FROM clubs WHERE email = $1
		 ORDER BY position LIMIT 1
		 FOR UPDATE`,
		email,
	).Scan(&clubPos, &club.Name, &club.Email, &club.Points, &club.RawPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return club, comp, ErrClubNotFound
		}
		return club, comp, fmt.Errorf("lock club row: %w", err)
	}

	newClub, newComp, err := fn(club, comp)
	if err != nil {
		return club, comp, err
	}

	if _, err = tx.Exec(ctx,
		`UPDATE competitions SET spots_available = $2 WHERE position = $1`,
		compPos, newComp.SpotsAvailable,
	); err != nil {
		return club, comp, fmt.Errorf("update spots_available: %w", err)
	}
	if _, err = tx.Exec(ctx,
		`UPDATE clubs SET points = $2 WHERE position = $1`,
		clubPos, newClub.Points,
	); err != nil {
		return club, comp, fmt.Errorf("update points: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return club, comp, fmt.Errorf("commit transaction: %w", err)
	}
	return newClub, newComp, nil
}
