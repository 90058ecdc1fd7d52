package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"cpms.org/internal/auth"
)

const (
	authHeader   = "Authorization"
	bearerScheme = "Bearer "
	accessParam  = "access"
	accessHeader = "X-Access"
)

var publicPaths = []string{
	"/user/login",
	"/healthz",
	"/readyz",
	"/metrics",
}

// withAuth resolves the bearer token to a Principal and stores it in the
// request context. Public paths pass through untouched.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := a.tokens.ParseAndValidate(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := a.directory.UserByID(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				writeError(w, r, http.StatusUnauthorized, "invalid token")
			} else {
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}
		if user.Status != auth.StatusActive {
			writeError(w, r, http.StatusUnauthorized, "account is deactivated")
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), auth.NewPrincipal(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAccess enforces the permission named by the client in the
// `access` query parameter (header X-Access as fallback). The check is
// default deny: a missing parameter is refused. Superusers bypass it.
func (a *API) requireAccess(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		if principal.IsSuperuser() {
			next(w, r)
			return
		}

		requested := strings.TrimSpace(r.URL.Query().Get(accessParam))
		if requested == "" {
			requested = strings.TrimSpace(r.Header.Get(accessHeader))
		}
		if requested == "" {
			writeError(w, r, http.StatusForbidden, "Access parameter is required.")
			return
		}

		perm := auth.Normalize(requested)
		if !a.registry.AllowList().Contains(perm) || !principal.HasPermission(perm) {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"success":   false,
				"msg":       "Permission denied",
				"required":  perm,
				"available": principal.SortedPermissions(),
			})
			return
		}
		next(w, r)
	})
}

// requireSuperuser restricts a route to the superuser role.
func (a *API) requireSuperuser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		if !principal.IsSuperuser() {
			writeError(w, r, http.StatusForbidden, "Forbidden: Super Admin only")
			return
		}
		next(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerScheme)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
