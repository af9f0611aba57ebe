package guard

import (
	"net/url"
	"strings"
)

// SafeReturnPath returns raw when it is a same-origin path (with optional
// query), otherwise def. Scheme-relative and backslash tricks are rejected.
func SafeReturnPath(raw, def string) string {
	if raw == "" || len(raw) > 2048 || !strings.HasPrefix(raw, "/") {
		return def
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") || strings.ContainsAny(raw, "\\\r\n\t") {
		return def
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return def
	}
	return raw
}

// LoginURL builds the login location that records from as the return path.
func LoginURL(loginPath, from string) string {
	if from == "" {
		return loginPath
	}
	return loginPath + "?from=" + url.QueryEscape(from)
}
