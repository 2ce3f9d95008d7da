package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
)

// DateLayout is the competition date format used by the seed files.
const DateLayout = "2006-01-02 15:04:05"

// counter accepts either a JSON number or a numeric JSON string. Any other
// value is kept in raw with valid unset.
type counter struct {
	value int
	set   bool
	valid bool
	raw   string
}

func (c *counter) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}
	c.set = true
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.raw = raw
		return nil
	}
	c.value, c.valid = n, true
	return nil
}

func (c counter) check(field string) error {
	if c.set && !c.valid {
		return fmt.Errorf("%s: not an integer: %q", field, c.raw)
	}
	if c.value < 0 {
		return fmt.Errorf("%s must not be negative", field)
	}
	return nil
}

type clubRecord struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Points counter `json:"points"`
}

type competitionRecord struct {
	Name           string  `json:"name"`
	Date           string  `json:"date"`
	SpotsAvailable counter `json:"spotsAvailable"`
	NumberOfPlaces counter `json:"numberOfPlaces"`
}

// LoadClubs reads a {"clubs": [...]} document. A points value that is not an
// integer is kept as RawPoints with Points set to 0.
func LoadClubs(r io.Reader) ([]model.Club, error) {
	var doc struct {
		Clubs []clubRecord `json:"clubs"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode clubs: %w", err)
	}

	clubs := make([]model.Club, 0, len(doc.Clubs))
	for i, rec := range doc.Clubs {
		club := model.Club{
			Name:  rec.Name,
			Email: strings.TrimSpace(rec.Email),
		}
		switch {
		case rec.Points.set && !rec.Points.valid:
			club.RawPoints = rec.Points.raw
		case rec.Points.value < 0:
			return nil, fmt.Errorf("club #%d %q: points must not be negative", i, rec.Name)
		default:
			club.Points = rec.Points.value
		}
		clubs = append(clubs, club)
	}
	return clubs, nil
}

// LoadCompetitions reads a {"competitions": [...]} document. Dates are parsed
// in loc. spotsAvailable wins over numberOfPlaces when both are present.
func LoadCompetitions(r io.Reader, loc *time.Location) ([]model.Competition, error) {
	var doc struct {
		Competitions []competitionRecord `json:"competitions"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode competitions: %w", err)
	}

	comps := make([]model.Competition, 0, len(doc.Competitions))
	for i, rec := range doc.Competitions {
		date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(rec.Date), loc)
		if err != nil {
			return nil, fmt.Errorf("competition #%d %q: parse date: %w", i, rec.Name, err)
		}
		places := rec.NumberOfPlaces
		if rec.SpotsAvailable.set {
			places = rec.SpotsAvailable
		}
		if err := places.check("spots"); err != nil {
			return nil, fmt.Errorf("competition #%d %q: %w", i, rec.Name, err)
		}
		spots := places.value
		comps = append(comps, model.Competition{
			Name:           rec.Name,
			Date:           date,
			SpotsAvailable: spots,
		})
	}
	return comps, nil
}

// LoadSeedFiles reads both seed files from disk.
func LoadSeedFiles(clubsPath, competitionsPath string, loc *time.Location) ([]model.Club, []model.Competition, error) {
	cf, err := os.Open(clubsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open clubs file: %w", err)
	}
	defer cf.Close()

	clubs, err := LoadClubs(cf)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", clubsPath, err)
	}

	pf, err := os.Open(competitionsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open competitions file: %w", err)
	}
	defer pf.Close()

	comps, err := LoadCompetitions(pf, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", competitionsPath, err)
	}
	return clubs, comps, nil
}
