package httpserver

import "net/http"

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Upload       http.HandlerFunc
	Dates        http.HandlerFunc
	Summary      http.HandlerFunc
	Charts       http.HandlerFunc
	Report       http.HandlerFunc
	DeleteUpload http.HandlerFunc
	History      http.HandlerFunc
	Health       http.HandlerFunc
}

// NewRouter wires all HTTP routes. apiAuth, when set, guards every /api route.
func NewRouter(routes Routes, apiAuth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	api := func(pattern, expected string, handler http.HandlerFunc) {
		if handler == nil {
			return
		}
		var h http.Handler = method(expected, handler)
		if apiAuth != nil {
			h = apiAuth(h)
		}
		mux.Handle(pattern, h)
	}

	api("/api/uploads", http.MethodPost, routes.Upload)
	api("/api/uploads/{id}/dates", http.MethodGet, routes.Dates)
	api("/api/uploads/{id}/summary", http.MethodGet, routes.Summary)
	api("/api/uploads/{id}/charts", http.MethodGet, routes.Charts)
	api("/api/uploads/{id}/report", http.MethodGet, routes.Report)
	api("/api/uploads/{id}", http.MethodDelete, routes.DeleteUpload)
	api("/api/reports/history", http.MethodGet, routes.History)

	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
