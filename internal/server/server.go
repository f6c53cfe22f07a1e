// Package server exposes the engine over an HTTP JSON API.
//
// The server owns the clock: every handler resolves "today" (a UTC midnight
// calendar date) and passes it down, so the services below stay
// deterministic. A client may override today with an X-Client-Date header.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"chorepoints/internal/recur"
	"chorepoints/internal/service"
)

// Server is the HTTP API server.
type Server struct {
	log      *slog.Logger
	validate *validator.Validate

	auth    *service.AuthService
	tasks   *service.TaskService
	rewards *service.RewardService

	now          func() time.Time // injectable for tests
	cookieSecure bool
}

func New(db *gorm.DB, log *slog.Logger) *Server {
	return &Server{
		log:      log,
		validate: validator.New(),
		auth:     service.NewAuthService(db),
		tasks:    service.NewTaskService(db),
		rewards:  service.NewRewardService(db),
		now:      time.Now,
	}
}

// SetClock replaces the server clock (tests).
func (s *Server) SetClock(now func() time.Time) { s.now = now }

// SetCookieSecure marks session cookies Secure (behind TLS).
func (s *Server) SetCookieSecure(secure bool) { s.cookieSecure = secure }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/user", s.handleSignUp)
		r.Post("/login", s.handleSignIn)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/user", s.handleWhoAmI)
			r.Post("/logout", s.handleSignOut)
			r.Post("/user/telegram", s.handleLinkTelegram)

			r.Route("/task", func(r chi.Router) {
				r.Get("/todo", s.handleListTodo)
				r.Get("/done", s.handleListDone)
				r.Post("/", s.handleCreateTask)
				r.Post("/undo", s.handleUndoSweep)
				r.Post("/complete/{id}", s.handleCompleteTask)
				r.Get("/{id}", s.handleGetTask)
				r.Put("/{id}", s.handleUpdateTask)
				r.Delete("/{id}", s.handleDeleteTask)
			})

			r.Route("/reward", func(r chi.Router) {
				r.Get("/", s.handleListRewards)
				r.Post("/", s.handleCreateReward)
				r.Post("/redeem/{id}", s.handleRedeemReward)
				r.Get("/{id}", s.handleGetReward)
				r.Put("/{id}", s.handleUpdateReward)
				r.Delete("/{id}", s.handleDeleteReward)
			})
		})
	})

	return r
}

// today resolves the calendar date an operation runs against: the
// X-Client-Date header when present, the server clock otherwise.
func (s *Server) today(r *http.Request) (time.Time, error) {
	if h := r.Header.Get("X-Client-Date"); h != "" {
		d, err := time.ParseInLocation("2006-01-02", h, time.UTC)
		if err != nil {
			return time.Time{}, badRequestf("invalid X-Client-Date %q, expected YYYY-MM-DD", h)
		}
		return d, nil
	}
	return recur.DateOf(s.now()), nil
}

func badRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}
