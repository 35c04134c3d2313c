package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/connectly/internal/model"
)

var errNoToken = errors.New("auth: no bearer token")

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the values we store.
type contextKey string

const (
	subjectKey contextKey = "subject"
	userKey    contextKey = "user"
)

// UserResolver maps a verified external subject to a user record.
// Returns (nil, nil) when the subject has no account; that is not an error,
// it is "unauthenticated for this operation".
type UserResolver interface {
	ResolveSubject(ctx context.Context, subject string) (*model.User, error)
}

// Authenticator produces the middleware that gates API routes.
//
// Flow per request: read the Bearer token from the Authorization header,
// validate it, then apply the route's Policy. A missing or invalid token is
// always 401. Under PolicyRequireUser, a subject with no user record is also
// 401: a valid login at the provider is not an account here.
type Authenticator struct {
	tokens *TokenService
	users  UserResolver
	logger *slog.Logger
}

func NewAuthenticator(tokens *TokenService, users UserResolver, logger *slog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, logger: logger}
}

// Require returns middleware enforcing the given policy.
func (a *Authenticator) Require(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := a.extractSubject(r)
			if err != nil {
				unauthorized(w, "valid authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)

			if policy == PolicyRequireUser {
				user, err := a.users.ResolveSubject(ctx, subject)
				if err != nil {
					a.logger.Error("resolving identity",
						slog.String("error", err.Error()),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"internal_error","message":"an internal error occurred"}`))
					return
				}
				if user == nil {
					unauthorized(w, "no account for this identity")
					return
				}
				ctx = context.WithValue(ctx, userKey, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the verified external subject of the request.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey).(string)
	return s, ok && s != ""
}

// UserFromContext returns the resolved requester. Only set on routes gated by
// PolicyRequireUser.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// extractSubject reads and validates the Bearer token.
func (a *Authenticator) extractSubject(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errNoToken
	}
	return a.tokens.Validate(parts[1])
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}
