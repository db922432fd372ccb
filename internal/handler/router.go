package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/virtual-events/internal/config"
	"github.com/Shivanand-hulikatti/virtual-events/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter mounts every route on a chi router with the global middleware
// stack.
func NewRouter(h *Handler, cors config.CORSConfig, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestID(logger))
	r.Use(Logger)
	r.Use(CORS(cors, logger))
	r.Use(metrics.HTTPMiddleware)

	r.Get("/health", HealthCheck)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/login", h.Login)
		r.Post("/signup", h.Signup)
		r.Post("/logout", h.Logout)
		r.Patch("/profile", h.UpdateProfile)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Get("/tags", h.Tags)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/featured", h.FeaturedEvents)
		r.Get("/mine", h.MyEvents)
		r.Get("/registered", h.RegisteredEvents)
		r.Get("/bookmarked", h.BookmarkedEvents)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetEvent)
			r.Patch("/", h.UpdateEvent)
			r.Delete("/", h.DeleteEvent)
			r.Post("/register", h.Register)
			r.Delete("/register", h.CancelRegistration)
			r.Post("/bookmark", h.Bookmark)
			r.Delete("/bookmark", h.RemoveBookmark)
			r.Post("/host", h.StartHosting)
			r.Get("/calendar.ics", h.Calendar)
			r.Get("/comments", h.Comments)
		})
	})

	r.Route("/conference/{id}", func(r chi.Router) {
		r.Get("/", h.GetConference)
		r.Post("/join", h.JoinConference)
		r.Post("/leave", h.LeaveConference)
		r.Post("/messages", h.SendMessage)
		r.Post("/video", h.ToggleVideo)
		r.Post("/audio", h.ToggleAudio)
	})

	return r
}
