package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rohits-web03/warbler/internal/metrics"
	"github.com/rs/zerolog"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

const routeKey contextKey = "route"

// Logger logs one line per request and records its duration. The route label
// is the pattern of the innermost mux wrapped with RecordRoute, falling back
// to the pattern next matched.
func Logger(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		leaf := new(string)
		r = r.WithContext(context.WithValue(r.Context(), routeKey, leaf))
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := *leaf
		if route == "" {
			route = r.Pattern
		}
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(elapsed.Seconds())

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", rec.status).
			Dur("duration", elapsed).
			Msg("request")
	})
}

// RecordRoute reports the pattern mux matched back to Logger. Use it on muxes
// mounted below http.StripPrefix, whose requests are copies Logger never sees.
func RecordRoute(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if leaf, ok := r.Context().Value(routeKey).(*string); ok && r.Pattern != "" {
			*leaf = r.Pattern
		}
	})
}
