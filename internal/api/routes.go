package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sajidalishaik45/coauthor-network/internal/api/handlers"
	"github.com/sajidalishaik45/coauthor-network/internal/apierr"
	"github.com/sajidalishaik45/coauthor-network/internal/cache"
	"github.com/sajidalishaik45/coauthor-network/internal/graph"
	"github.com/sajidalishaik45/coauthor-network/internal/middleware"
)

// Deps are the services the HTTP API is built on.
type Deps struct {
	Graph    *graph.Graph
	Layout   handlers.LayoutController
	Hub      *handlers.Hub
	Cache    cache.Cache
	CacheTTL time.Duration
	// RateLimiter throttles /api routes; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
	CORS        *middleware.CORSConfig
}

// NewRouter registers every route. Request ids, panic recovery and CORS are
// added by NewHandler.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	r.Use(middleware.Instrument)

	nodes := 0
	if d.Graph != nil {
		nodes = len(d.Graph.Nodes)
	}

	r.HandleFunc("/health", handlers.Health).Methods("GET")
	r.HandleFunc("/ready", handlers.Readiness(d.Layout, nodes)).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.Limit)
	}
	api.Use(middleware.Compress)

	// Graph
	graphs := handlers.NewGraphHandler(d.Graph, d.Cache, d.CacheTTL)
	api.HandleFunc("/graph", graphs.GetGraph).Methods("GET")
	api.HandleFunc("/countries", graphs.GetCountries).Methods("GET")

	// Layout
	layout := handlers.NewLayoutHandler(d.Layout)
	api.HandleFunc("/layout", layout.GetSnapshot).Methods("GET")
	api.HandleFunc("/layout/pin", layout.PinNode).Methods("POST")
	api.HandleFunc("/layout/pin/{id}", layout.UnpinNode).Methods("DELETE")
	api.HandleFunc("/layout/params", layout.GetParams).Methods("GET")
	api.HandleFunc("/layout/params", layout.UpdateParams).Methods("PUT")
	api.HandleFunc("/layout/restart", layout.Restart).Methods("POST")
	api.HandleFunc("/layout/stop", layout.Stop).Methods("POST")

	// Live stream
	if d.Hub != nil {
		ws := handlers.NewWebSocketHandler(d.Hub)
		api.HandleFunc("/layout/ws", ws.HandleWebSocket).Methods("GET")
	}

	// Cache
	admin := handlers.NewCacheAdminHandler(d.Cache)
	api.HandleFunc("/cache/stats", admin.GetCacheStats).Methods("GET")
	api.HandleFunc("/cache/invalidate", admin.InvalidateCache).Methods("POST")

	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierr.WriteErrorWithContext(w, r, apierr.SystemMethodNotAllowed(r.Method))
}

// NewHandler wraps the router with the outer middleware chain. CORS sits
// outside the router so preflight requests are answered before method
// matching.
func NewHandler(d Deps) http.Handler {
	var h http.Handler = NewRouter(d)
	h = middleware.CORS(d.CORS)(h)
	h = middleware.Recover(h)
	h = middleware.RequestID(h)
	return h
}
