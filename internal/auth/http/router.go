package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/service"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/pkg/httpx"
	"github.com/aussiebroadwan/logind/pkg/slogx"

	_ "github.com/aussiebroadwan/logind/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// Use appends middlewares to the global chain. They run after request
// logging, in the order given.
func (r *Router) Use(mws ...httpx.Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Login Service API
//	@version		0.1.0
//	@description	Issues short-lived HS256 access tokens and opaque refresh tokens, exchanges refresh tokens
//	@description	for new access tokens, and revokes refresh tokens on logout.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/logind
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8000
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /auth/login", &LoginHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /auth/refresh", &RefreshHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /auth/logout", &LogoutHandler{AuthService: r.AuthService})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /health", HealthHandler())
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
