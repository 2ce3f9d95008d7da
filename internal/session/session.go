// Package session keeps a snapshot of the logged-in club per browser.
package session

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
)

// ErrNoSession is returned by Load when the request carries no valid session.
var ErrNoSession = errors.New("no session")

// Store persists the club snapshot between requests.
type Store interface {
	Load(r *http.Request) (*model.Club, error)
	Save(w http.ResponseWriter, r *http.Request, club model.Club) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Options are cookie attributes shared by every backend.
type Options struct {
	TTL    time.Duration
	Secure bool
}

const flashCookie = "flash"

func newCookie(name, value string, opts Options) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func expireCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetFlash stores a one-shot message shown by the next rendered page.
func SetFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending flash message, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	expireCookie(w, flashCookie, false)
	msg, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}
