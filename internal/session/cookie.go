package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

const (
	cookieName = "session"
	issuer     = "club-booking"
)

type claims struct {
	Club model.Club `json:"club"`
	jwt.RegisteredClaims
}

// CookieStore keeps the snapshot client side in an HS256 signed JWT.
type CookieStore struct {
	secret []byte
	opts   Options
	now    func() time.Time
}

var _ Store = (*CookieStore)(nil)

// NewCookieStore signs session tokens with secret.
func NewCookieStore(secret string, opts Options) *CookieStore {
	return &CookieStore{secret: []byte(secret), opts: opts, now: time.Now}
}

// Load verifies the session token and returns its club snapshot.
func (s *CookieStore) Load(r *http.Request) (*model.Club, error) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}

	var cl claims
	_, err = jwt.ParseWithClaims(c.Value, &cl, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	club := cl.Club
	return &club, nil
}

// Save issues a new token for club that expires after the configured TTL.
func (s *CookieStore) Save(w http.ResponseWriter, _ *http.Request, club model.Club) error {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Club: club,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   club.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, newCookie(cookieName, signed, s.opts))
	return nil
}

// Clear expires the session cookie.
func (s *CookieStore) Clear(w http.ResponseWriter, _ *http.Request) error {
	expireCookie(w, cookieName, s.opts.Secure)
	return nil
}
