package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"taskdesk/internal/app/reqctx"
	"taskdesk/internal/domain"
)

// AuthConfig configures the bearer-token authentication middleware.
type AuthConfig struct {
	// Secret is the HS256 signing key used to verify tokens.
	Secret string
	// SkipPaths are path prefixes exempt from authentication, such as the
	// health endpoints.
	SkipPaths []string
}

// tokenClaims are the JWT claims recognized by the service. Roles feed the
// principal used by RequireRole.
type tokenClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// Auth returns middleware that verifies the Authorization bearer token and
// replaces the request's principal with the authenticated caller. Requests
// without a valid token receive a 401 problem response.
//
// Must run after RequestContext so a RequestContext exists to carry the
// principal.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.SkipPaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeAuthProblem(w, r, http.StatusUnauthorized, "authentication required")
				return
			}

			principal, err := verifyToken(token, cfg.Secret)
			if err != nil {
				writeAuthProblem(w, r, http.StatusUnauthorized, "invalid credentials")
				return
			}

			if rc := reqctx.FromContext(r.Context()); rc != nil {
				rc.Principal = principal
				next.ServeHTTP(w, r)
				return
			}
			ctx := reqctx.WithRequestContext(r.Context(), reqctx.New(principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that rejects requests whose principal lacks
// the given role with a 403 problem response. Intended for route groups, such
// as requiring the admin role on deletes.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !reqctx.Caller(r.Context()).HasRole(role) {
				writeAuthProblem(w, r, http.StatusForbidden, domain.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// verifyToken parses and validates an HS256 token and builds the caller
// principal from its claims.
func verifyToken(token, secret string) (reqctx.Principal, error) {
	if strings.TrimSpace(secret) == "" {
		return reqctx.Principal{}, errors.New("auth secret not configured")
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &tokenClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return reqctx.Principal{}, err
	}
	if !parsed.Valid {
		return reqctx.Principal{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return reqctx.Principal{}, errors.New("subject claim required")
	}

	return reqctx.Principal{
		Subject: claims.Subject,
		Roles:   claims.Roles,
	}, nil
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// writeAuthProblem writes an RFC 9457 problem response for an authentication
// or authorization failure. The dto package only maps domain errors, and 401
// has no domain sentinel, so the body is built here.
func writeAuthProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":     "about:blank",
		"title":    http.StatusText(status),
		"status":   status,
		"detail":   detail,
		"instance": r.RequestURI,
	})
}
