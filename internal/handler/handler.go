// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/Shivanand-hulikatti/club-booking/internal/repository"
	"github.com/Shivanand-hulikatti/club-booking/internal/service"
	"github.com/Shivanand-hulikatti/club-booking/internal/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// User-facing messages.
const (
	msgEmptyEmail      = "Error: Please enter an email address."
	msgUnknownEmail    = "Error: Email not found. Please check your email address."
	msgLoginRequired   = "Error: Please log in to continue."
	msgPastCompetition = "Error: You cannot book spots in a past competition."
	msgBookingLimit    = "Error: You cannot book more than 12 spots per competition."
	msgNotEnoughPoints = "Error: You do not have enough points to book this many spots."
	msgNotEnoughSpots  = "Error: There are not enough places left in this competition."
	msgInvalidSpots    = "Error: Please enter a valid number of places."
	msgBookingComplete = "Great-booking complete!"
	msgSomethingWrong  = "Something went wrong-please try again"
	msgInternalFailure = "internal server error"
)

// ClubHandler holds all HTTP handlers for the club booking site.
type ClubHandler struct {
	svc      *service.ClubService
	sessions session.Store
	logger   *slog.Logger
}

// NewClubHandler constructs a ClubHandler.
func NewClubHandler(svc *service.ClubService, sessions session.Store, logger *slog.Logger) *ClubHandler {
	return &ClubHandler{svc: svc, sessions: sessions, logger: logger}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// internalError logs the real error and hides it from the client.
func (h *ClubHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		"request_id", chimiddleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, msgInternalFailure, http.StatusInternalServerError)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// bookingOutcome maps a booking error to a status code and page message.
func bookingOutcome(err error) (int, string, bool) {
	switch {
	case err == nil:
		return http.StatusOK, msgBookingComplete, true
	case errors.Is(err, repository.ErrCompetitionNotFound):
		return http.StatusNotFound, msgSomethingWrong, true
	case errors.Is(err, service.ErrInvalidSpots):
		return http.StatusBadRequest, msgInvalidSpots, true
	case errors.Is(err, service.ErrPastCompetition):
		return http.StatusConflict, msgPastCompetition, true
	case errors.Is(err, service.ErrExceedsBookingLimit):
		return http.StatusConflict, msgBookingLimit, true
	case errors.Is(err, service.ErrInsufficientPoints):
		return http.StatusConflict, msgNotEnoughPoints, true
	case errors.Is(err, service.ErrNotEnoughSpots):
		return http.StatusConflict, msgNotEnoughSpots, true
	default:
		return http.StatusInternalServerError, "", false
	}
}

// ─── Pages ────────────────────────────────────────────────────────────────────

// Index handles GET /
func (h *ClubHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index", pageData{
		Title:   "Home",
		Message: session.PopFlash(w, r),
	})
}

// Login handles POST /login
// Resolves the secretary email to a club and starts a session.
func (h *ClubHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")

	club, err := h.svc.Login(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			msg := msgUnknownEmail
			if isBlank(email) {
				msg = msgEmptyEmail
			}
			h.render(w, r, http.StatusUnauthorized, "index", pageData{Title: "Home", Message: msg})
			return
		}
		h.internalError(w, r, err)
		return
	}

	if err := h.sessions.Save(w, r, *club); err != nil {
		h.internalError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "club logged in", "club", club.Email)
	redirect(w, r, "/summary")
}

// Summary handles GET /summary
// Shows the club's points and every competition.
func (h *ClubHandler) Summary(w http.ResponseWriter, r *http.Request) {
	club, ok := h.freshClub(w, r)
	if !ok {
		return
	}
	h.renderSummary(w, r, http.StatusOK, *club, session.PopFlash(w, r))
}

// BookForm handles GET /book/{competition}
func (h *ClubHandler) BookForm(w http.ResponseWriter, r *http.Request) {
	club, ok := h.freshClub(w, r)
	if !ok {
		return
	}

	// chi matches on RawPath when the request carries escaped slashes.
	name := chi.URLParam(r, "competition")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}

	comp, err := h.svc.Competition(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrCompetitionNotFound) {
			session.SetFlash(w, msgSomethingWrong)
			redirect(w, r, "/summary")
			return
		}
		h.internalError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "booking", pageData{
		Title:       "Booking for " + comp.Name,
		Club:        club,
		Competition: comp,
		Now:         h.svc.Now(),
	})
}

// Book handles POST /book
// Runs the booking rule and re-renders the summary with the outcome.
func (h *ClubHandler) Book(w http.ResponseWriter, r *http.Request) {
	current := clubFromContext(r.Context())
	competition := r.PostFormValue("competition")
	spots := r.PostFormValue("spots")

	res, err := h.svc.Book(r.Context(), current.Email, competition, spots)
	if errors.Is(err, repository.ErrClubNotFound) {
		h.dropSession(w, r)
		return
	}

	status, msg, ok := bookingOutcome(err)
	if !ok {
		h.internalError(w, r, err)
		return
	}

	if res == nil {
		club, ok := h.freshClub(w, r)
		if !ok {
			return
		}
		h.renderSummary(w, r, status, *club, msg)
		return
	}
	if err := h.sessions.Save(w, r, res.Club); err != nil {
		h.internalError(w, r, err)
		return
	}
	h.renderSummary(w, r, status, res.Club, msg)
}

// Points handles GET /points
// Public board of clubs by points, no session needed.
func (h *ClubHandler) Points(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.svc.PointsBoard(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "points", pageData{Title: "Points", Clubs: clubs})
}

// Logout handles GET /logout
func (h *ClubHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.WarnContext(r.Context(), "clear session failed", "error", err)
	}
	redirect(w, r, "/")
}

// ─── JSON API ─────────────────────────────────────────────────────────────────

// APIPoints handles GET /api/points
func (h *ClubHandler) APIPoints(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.svc.PointsBoard(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "points board failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list clubs")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if clubs == nil {
		clubs = []model.Club{}
	}

	writeJSON(w, http.StatusOK, clubs)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Internals ────────────────────────────────────────────────────────────────

// freshClub re-reads the session club from the store so pages show current
// points. A club that no longer exists ends the session.
func (h *ClubHandler) freshClub(w http.ResponseWriter, r *http.Request) (*model.Club, bool) {
	current := clubFromContext(r.Context())
	club, err := h.svc.Club(r.Context(), current.Email)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			h.dropSession(w, r)
			return nil, false
		}
		h.internalError(w, r, err)
		return nil, false
	}
	return club, true
}

func (h *ClubHandler) dropSession(w http.ResponseWriter, r *http.Request) {
	_ = h.sessions.Clear(w, r)
	session.SetFlash(w, msgLoginRequired)
	redirect(w, r, "/")
}

func (h *ClubHandler) renderSummary(w http.ResponseWriter, r *http.Request, status int, club model.Club, msg string) {
	comps, err := h.svc.Competitions(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, status, "welcome", pageData{
		Title:        "Summary",
		Message:      msg,
		Club:         &club,
		Competitions: comps,
		Now:          h.svc.Now(),
	})
}
