// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	aboutfeature "github.com/merrittsmen/clubhub/internal/app/features/about"
	adminfeature "github.com/merrittsmen/clubhub/internal/app/features/admin"
	authgooglefeature "github.com/merrittsmen/clubhub/internal/app/features/authgoogle"
	booksfeature "github.com/merrittsmen/clubhub/internal/app/features/books"
	errorsfeature "github.com/merrittsmen/clubhub/internal/app/features/errors"
	groupsfeature "github.com/merrittsmen/clubhub/internal/app/features/groups"
	healthfeature "github.com/merrittsmen/clubhub/internal/app/features/health"
	homefeature "github.com/merrittsmen/clubhub/internal/app/features/home"
	loginfeature "github.com/merrittsmen/clubhub/internal/app/features/login"
	logoutfeature "github.com/merrittsmen/clubhub/internal/app/features/logout"
	pendingfeature "github.com/merrittsmen/clubhub/internal/app/features/pending"
	profilefeature "github.com/merrittsmen/clubhub/internal/app/features/profile"
	registerfeature "github.com/merrittsmen/clubhub/internal/app/features/register"
	testimonialsfeature "github.com/merrittsmen/clubhub/internal/app/features/testimonials"
	"github.com/merrittsmen/clubhub/internal/app/store/audit"
	bookstore "github.com/merrittsmen/clubhub/internal/app/store/books"
	groupstore "github.com/merrittsmen/clubhub/internal/app/store/groups"
	loginstore "github.com/merrittsmen/clubhub/internal/app/store/logins"
	memberstore "github.com/merrittsmen/clubhub/internal/app/store/members"
	"github.com/merrittsmen/clubhub/internal/app/store/oauthstate"
	reviewstore "github.com/merrittsmen/clubhub/internal/app/store/reviews"
	testimonialstore "github.com/merrittsmen/clubhub/internal/app/store/testimonials"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auditlog"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It creates the session manager, boots the
// template engine, builds the stores and feature handlers, and mounts
// the feature routers with the right gates:
//
//   - public: home, register, login, Google OAuth, health, static files
//   - signed-in: logout, the pending page
//   - approved members: groups, books, reviews, testimonials
//   - admins: everything under /admin
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	// Fresh user data on each request so approvals, revocations, and
	// promotions take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Initialize and boot the template engine once at startup. Dev mode
	// enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	blobStore, err := newStorage(context.Background(), appCfg, logger)
	if err != nil {
		return nil, err
	}

	// Stores
	users := userstore.New(db)
	groups := groupstore.New(db)
	members := memberstore.New(db)
	books := bookstore.New(db)
	reviews := reviewstore.New(db)
	testimonials := testimonialstore.New(db)
	logins := loginstore.New(db)
	oauthStates := oauthstate.New(db)
	auditStore := audit.New(db)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Admin:   appCfg.AuditLogAdmin,
		Content: appCfg.AuditLogContent,
	})

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	r := chi.NewRouter()

	// Every form in the app carries the gorilla.csrf.Token field.
	r.Use(csrf.Protect([]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	))

	// Loads SessionUser into context if signed in; handlers read it via
	// auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	aboutHandler := aboutfeature.NewHandler(logger)
	r.Mount("/about", aboutfeature.Routes(aboutHandler))

	// Authentication
	registerHandler := registerfeature.NewHandler(sessionMgr, errLog, auditLog, users, googleEnabled, logger)
	r.Group(func(gr chi.Router) {
		gr.Use(sessionMgr.RedirectIfSignedIn)
		gr.Mount("/register", registerfeature.Routes(registerHandler))
	})

	loginHandler := loginfeature.NewHandler(sessionMgr, errLog, auditLog, users, logins, googleEnabled, logger)
	r.Group(func(gr chi.Router) {
		gr.Use(sessionMgr.RedirectIfSignedIn)
		gr.Mount("/login", loginfeature.Routes(loginHandler))
	})

	googleHandler := authgooglefeature.NewHandler(sessionMgr, auditLog, users, logins, oauthStates,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	pendingHandler := pendingfeature.NewHandler(logger)
	r.Mount("/pending", pendingfeature.Routes(pendingHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(users, reviews, books, errLog, logger)
	r.Group(func(gr chi.Router) {
		gr.Use(sessionMgr.RequireSignedIn)
		gr.Mount("/profile", profilefeature.Routes(profileHandler))
	})

	// Member pages
	groupsHandler := groupsfeature.NewHandler(groups, members, errLog, logger)
	booksHandler := booksfeature.NewHandler(books, reviews, users, groups, blobStore, errLog, auditLog, logger)
	testimonialsHandler := testimonialsfeature.NewHandler(testimonials, users, errLog, auditLog, logger)

	r.Group(func(gr chi.Router) {
		gr.Use(sessionMgr.RequireApproved)
		gr.Mount("/groups", groupsfeature.Routes(groupsHandler))
		gr.Mount("/books", booksfeature.Routes(booksHandler))
		gr.Mount("/reviews", booksfeature.ReviewRoutes(booksHandler))
		gr.Mount("/testimonials", testimonialsfeature.Routes(testimonialsHandler))
	})

	// Admin area
	adminHandler := adminfeature.NewHandler(users, groups, members, books, logins, auditStore, blobStore,
		errLog, auditLog, logger)
	r.Group(func(gr chi.Router) {
		gr.Use(sessionMgr.RequireAdmin)
		gr.Mount("/admin", adminfeature.Routes(adminHandler))
	})

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
