package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
	"github.com/arborlabs/gatehouse/pkg/httpx"
	"github.com/arborlabs/gatehouse/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	pingers     []store.Pinger
	AuthService *service.AuthService
}

func NewRouter(buildVersion string, logger *slog.Logger, pingers ...store.Pinger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		pingers:      pingers,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.Mux.Handle("POST /signup", &SignupHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /login", &LoginHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /verify-2fa", &Verify2FAHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /logout", &LogoutHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /verify-token", &VerifyTokenHandler{AuthService: r.AuthService})

	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.pingers...))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}
