package util

import (
	"net/url"
	"strings"
)

// MaskDSN oculta la contraseña de una URI de conexión (mongodb://, postgres://, redis://)
// para poder loguearla. Las DSN tipo "key=value" enmascaran el valor de password=.
func MaskDSN(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "***"
		}
		if u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), "***")
			}
		}
		out := u.String()
		// url.String escapa los asteriscos
		return strings.Replace(out, "%2A%2A%2A", "***", 1)
	}

	parts := strings.Fields(s)
	for i, p := range parts {
		if k, _, ok := strings.Cut(p, "="); ok && strings.EqualFold(k, "password") {
			parts[i] = k + "=***"
		}
	}
	return strings.Join(parts, " ")
}
