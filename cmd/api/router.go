package main

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"manufacturing_kds/pkg/api/dashboard"
	"manufacturing_kds/pkg/api/httpx"
	"manufacturing_kds/pkg/api/logistics"
	"manufacturing_kds/pkg/api/production"
	"manufacturing_kds/pkg/api/supplier"
	"manufacturing_kds/pkg/api/welding"
	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/logging"
	"manufacturing_kds/pkg/core/store"
)

// routerConfig carries the HTTP-level settings.
type routerConfig struct {
	APIKeyRequired bool
	APIKey         string
	AllowedOrigins []string
}

// newRouter mounts every area on its /api subrouter and wraps the result
// in request IDs, the API key check, CORS and the access log.
func newRouter(st *store.Store, set *assumption.Set, cfg routerConfig) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	api := router.PathPrefix("/api").Subrouter()

	dash := dashboard.NewHandler(st, set.Executive)
	dash.RegisterHealth(api)
	dash.Register(api.PathPrefix("/dashboard").Subrouter())

	production.NewHandler(st, set.Production).Register(api.PathPrefix("/uretim").Subrouter())
	supplier.NewHandler(st).Register(api.PathPrefix("/tedarikci").Subrouter())
	welding.NewHandler(st, set.Welding).Register(api.PathPrefix("/kaynak").Subrouter())
	logistics.NewHandler(st, set.Logistics).Register(api.PathPrefix("/lojistik").Subrouter())

	var h http.Handler = router
	h = httpx.APIKey(cfg.APIKeyRequired, cfg.APIKey)(h)
	h = httpx.WithRequestID(h)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-API-Key", httpx.RequestIDHeader}),
	)(h)
	return handlers.CombinedLoggingHandler(logging.Writer(), h)
}
