package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/config"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/security"
)

const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags the request with an id and logs its outcome
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		l := logger.Get().With("request_id", requestID)
		ctx := logger.NewContext(r.Context(), l)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		l.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// authorize applies the endpoint security table: public routes pass through,
// every other route needs a bearer token whose session lives for the request
func authorize(tm security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level := config.GetSecurityLevel(endpointOf(r))

			// Public endpoint - skip auth
			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := security.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorResponse{
					Code:    "UNAUTHENTICATED",
					Message: "authorization token is not provided",
				})
				return
			}

			session, err := tm.NewSession(token)
			if err != nil {
				logger.DebugContext(r.Context(), "Rejected token", "error", err)
				writeJSON(w, http.StatusUnauthorized, errorResponse{
					Code:    "UNAUTHENTICATED",
					Message: err.Error(),
				})
				return
			}
			defer session.End()

			if err := session.Require(level.RequiredRole()); err != nil {
				writeError(w, r, err)
				return
			}

			ctx := security.WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// endpointOf returns "METHOD /route/template" for the matched route
func endpointOf(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.Method + " " + r.URL.Path
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return r.Method + " " + r.URL.Path
	}
	return r.Method + " " + tpl
}
