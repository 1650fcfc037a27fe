package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/matching"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
	"github.com/erazemk/najdeno/internal/store"
)

// Config holds the settings the API needs beyond the database handle.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration

	Matching        matching.Config
	AllMatchesLimit int
	MaxCandidates   int

	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, cfg Config) (http.Handler, error) {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}

	matches, err := service.NewMatchService(
		store.NewRepository(db, cfg.MaxCandidates),
		matching.NewMatcher(cfg.Matching),
		service.WithLogger(cfg.Logger),
		service.WithAllMatchesLimit(cfg.AllMatchesLimit),
	)
	if err != nil {
		return nil, err
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	images := imaging.NewProcessor()

	authHandler := &AuthHandler{DB: db, Issuer: issuer}
	usersHandler := &UsersHandler{DB: db}
	lostHandler := &LostHandler{DB: db, Images: images, MaxUploadBytes: cfg.MaxUploadBytes}
	foundHandler := &FoundHandler{DB: db, Images: images, MaxUploadBytes: cfg.MaxUploadBytes}
	matchesHandler := &MatchesHandler{Service: matches}

	authMW := AuthMiddleware(issuer, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	authed := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	mux := http.NewServeMux()

	// Public.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, model.Categories)
	})

	// Account.
	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))
	mux.Handle("GET /api/auth/me", authed(authHandler.Me))
	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))

	// Users.
	mux.Handle("PUT /api/users/me", authed(usersHandler.UpdateContact))
	mux.Handle("GET /api/users/me/lost", authed(usersHandler.MyLost))
	mux.Handle("GET /api/users/me/found", authed(usersHandler.MyFound))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Lost reports: read (all), write (owner).
	mux.Handle("GET /api/lost", authed(lostHandler.List))
	mux.Handle("POST /api/lost", authed(lostHandler.Create))
	mux.Handle("GET /api/lost/{id}", authed(lostHandler.Get))
	mux.Handle("PUT /api/lost/{id}", authed(lostHandler.Update))
	mux.Handle("DELETE /api/lost/{id}", authed(lostHandler.Delete))
	mux.Handle("PUT /api/lost/{id}/resolve", authed(lostHandler.Resolve))
	mux.Handle("PUT /api/lost/{id}/image", authed(lostHandler.UploadImage))
	mux.Handle("GET /api/lost/{id}/image", authed(lostHandler.GetImage))

	// Found reports: read (all), write (owner).
	mux.Handle("GET /api/found", authed(foundHandler.List))
	mux.Handle("POST /api/found", authed(foundHandler.Create))
	mux.Handle("GET /api/found/{id}", authed(foundHandler.Get))
	mux.Handle("PUT /api/found/{id}", authed(foundHandler.Update))
	mux.Handle("DELETE /api/found/{id}", authed(foundHandler.Delete))
	mux.Handle("PUT /api/found/{id}/return", authed(foundHandler.Return))
	mux.Handle("PUT /api/found/{id}/image", authed(foundHandler.UploadImage))
	mux.Handle("GET /api/found/{id}/image", authed(foundHandler.GetImage))

	// Matches.
	mux.Handle("GET /api/matches", authed(matchesHandler.All))
	mux.Handle("GET /api/matches/lost/{id}", authed(matchesHandler.ForLost))
	mux.Handle("GET /api/matches/found/{id}", authed(matchesHandler.ForFound))
	mux.Handle("GET /api/matches/my-lost-items", authed(matchesHandler.MyLost))
	mux.Handle("GET /api/matches/my-found-items", authed(matchesHandler.MyFound))

	return mux, nil
}
