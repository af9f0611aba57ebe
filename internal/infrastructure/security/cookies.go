package security

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

const ClientSessionCookieName = "console_session"

func cookieName(secure bool) string {
	if secure {
		return "__Host-" + ClientSessionCookieName
	}
	return ClientSessionCookieName
}

// NewClientSessionID returns a URL-safe id with 256 bits of entropy.
func NewClientSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", domain.ErrRandomFailed(err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func SetClientSession(w http.ResponseWriter, id string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(secure),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// ReadClientSession prefers the __Host- cookie and falls back to the plain one used over http in dev.
func ReadClientSession(r *http.Request) (string, bool) {
	for _, name := range []string{cookieName(true), cookieName(false)} {
		if c, err := r.Cookie(name); err == nil {
			if v := strings.TrimSpace(c.Value); v != "" && len(v) <= 128 {
				return v, true
			}
		}
	}
	return "", false
}
