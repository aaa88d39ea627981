package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mberla/duet/internal/infrastructure/json"
)

// clientIP strips the port from the remote address so the rate limit window
// follows the client host, not the TCP connection; a client must not get a
// fresh window by reconnecting. RealIP may already have rewritten the address
// to a bare IP, in which case it is used as-is.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (app *Application) rateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allow, retryAfter := app.ratelimiter.Allow(clientIP(r)); !allow {
			json.WriteRateLimitError(w, int(retryAfter/time.Second)+1)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) enableCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case origin == "":
			// non-browser client, nothing to negotiate
		case app.originAllowed(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
		default:
			w.Header().Set("Access-Control-Allow-Origin", strings.Join(app.config.HTTP.AllowedOrigins, ", "))
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		// allow preflight requests from the browser API
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) originAllowed(origin string) bool {
	for _, a := range app.config.HTTP.AllowedOrigins {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
