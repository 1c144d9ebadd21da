package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/studyboosters/backend/internal/app"
	"github.com/studyboosters/backend/internal/handler"
	"github.com/studyboosters/backend/internal/middleware"
	"github.com/studyboosters/backend/internal/model"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.TokenService)
	files := handler.NewFileHandler(app.FileService)
	subjects := handler.NewSubjectHandler(app.SubjectService)
	settings := handler.NewSettingsHandler(app.SettingsService, app.ActivityService)
	community := handler.NewCommunityHandler(app.DoubtService, app.MentorService)
	health := handler.NewHealthHandler(app.Store)

	authed := middleware.RequireAuth
	admin := middleware.RequireAdmin
	answerer := middleware.RequireRole(model.RoleAdmin, model.RoleMentor)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	loginLimiter := middleware.RateLimit(app.Cfg.LoginRateLimit, app.Cfg.LoginRateWindow)
	mux.HandleFunc("POST /api/auth/login", loginLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// AUTHENTICATED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", authed(auth.Me))

	// Files
	mux.HandleFunc("GET /api/files", authed(files.List))
	mux.HandleFunc("GET /api/files/{id}", authed(files.Get))
	mux.HandleFunc("POST /api/files/upload", authed(files.Upload))
	mux.HandleFunc("POST /api/files/{id}/download", authed(files.Download))

	// Catalog and settings reads
	mux.HandleFunc("GET /api/subjects", authed(subjects.List))
	mux.HandleFunc("GET /api/settings", authed(settings.Get))

	// Community
	mux.HandleFunc("GET /api/doubts", authed(community.ListDoubts))
	mux.HandleFunc("POST /api/doubts", authed(community.AskDoubt))
	mux.HandleFunc("POST /api/doubts/{id}/answer", answerer(community.AnswerDoubt))
	mux.HandleFunc("GET /api/mentors", authed(community.ListMentors))
	mux.HandleFunc("POST /api/mentors", authed(community.ApplyMentor))

	// ============================================================================
	// ADMIN ROUTES
	// ============================================================================

	mux.HandleFunc("POST /api/auth/promote-admin/{id}", admin(auth.PromoteAdmin))
	mux.HandleFunc("POST /api/files/{id}/approve", admin(files.Approve))
	mux.HandleFunc("DELETE /api/files/{id}", admin(files.Delete))
	mux.HandleFunc("POST /api/subjects", admin(subjects.Add))
	mux.HandleFunc("DELETE /api/subjects/{id}", admin(subjects.Delete))
	mux.HandleFunc("PUT /api/settings", admin(settings.Update))
	mux.HandleFunc("POST /api/settings/toggle-manual-review", admin(settings.ToggleManualReview))
	mux.HandleFunc("GET /api/logs", admin(settings.Logs))
	mux.HandleFunc("POST /api/mentors/{id}/approve", admin(community.ApproveMentor))
	mux.HandleFunc("POST /api/mentors/{id}/reject", admin(community.RejectMentor))

	// Metrics must wrap the mux directly to see the matched pattern
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.AuthMiddleware(app.TokenService),
		middleware.Metrics,
	)
}
