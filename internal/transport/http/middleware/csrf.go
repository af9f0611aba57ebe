package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
	"github.com/Gourab-ghosh21/digital-spark/internal/transport/http/response"
)

// OriginCheck rejects state-changing requests whose Origin (or Referer) is
// neither the request's own host nor one of allowedOrigins.
func OriginCheck(allowedOrigins []string) func(http.Handler) http.Handler {
	allowedHosts := make(map[string]struct{})
	for _, origin := range allowedOrigins {
		if u, err := url.Parse(strings.TrimSpace(origin)); err == nil && u.Host != "" {
			allowedHosts[strings.ToLower(u.Host)] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = r.Header.Get("Referer")
			}
			u, err := url.Parse(origin)
			if origin == "" || err != nil || u.Host == "" {
				response.WriteError(w, r, domain.ErrOriginRejected())
				return
			}

			host := strings.ToLower(u.Host)
			if _, ok := allowedHosts[host]; !ok && host != strings.ToLower(r.Host) {
				response.WriteError(w, r, domain.ErrOriginRejected())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
