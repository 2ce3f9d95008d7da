package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 5 * time.Second

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	CSRFKey     []byte // nil disables CSRF protection
	Secure      bool
	CORSOrigins []string
}

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(h *ClubHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", HealthCheck)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticFiles())))

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS(opts.CORSOrigins...))
		r.Get("/points", h.APIPoints)
	})

	r.Group(func(r chi.Router) {
		if len(opts.CSRFKey) > 0 {
			r.Use(CSRF(opts.CSRFKey, opts.Secure))
		}

		r.Get("/", h.Index)
		r.Post("/login", h.Login)
		r.Get("/points", h.Points)
		r.Get("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireClub)
			r.Get("/summary", h.Summary)
			r.Get("/book/{competition}", h.BookForm)
			r.Post("/book", h.Book)
		})
	})

	return r
}
