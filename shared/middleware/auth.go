package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	jwt_internal "github.com/bloodlink-dev/bloodlink/shared/jwt"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

// AccountStatusCache reports restricted accounts and lifts expired suspensions.
type AccountStatusCache interface {
	Restriction(userId domain.UserId) *domain.AccountStatus
}

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

const AccessTokenCookie = "accessToken"

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService    jwt_internal.JwtService
	accounts      AccountStatusCache
	secureCookies bool
}

func NewAuth(jwtService jwt_internal.JwtService, accounts AccountStatusCache, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		accounts:      accounts,
		secureCookies: secureCookies,
	}
}

// NeedAuth requires a valid token from a user that is neither blocked nor suspended.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(nil)
}

// RequireRoles is NeedAuth restricted to the given roles.
func (a *Auth) RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return a.auth(roles)
}

// AdminOnly returns middleware that requires admin authentication
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth([]domain.Role{domain.RoleAdmin})
}

// RequireRoles checks the role of a user placed in context by NeedAuth.
// Used on individual routes inside an authenticated group.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r)
			if user == nil {
				utils.WriteError(w, http.StatusUnauthorized, "Please sign-in")
				return
			}
			if !hasRole(user.Role, roles) {
				utils.WriteError(w, http.StatusForbidden, "Access denied for role "+string(user.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasRole(role domain.Role, roles []domain.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func tokenFromRequest(r *http.Request) string {
	if accessCookie, err := r.Cookie(AccessTokenCookie); err == nil && accessCookie.Value != "" {
		return accessCookie.Value
	}
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return ""
}

// extractUser extracts and validates user from JWT token in request
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := jwt_internal.Claims(token)
	if err != nil {
		logger.Log.Warn("invalid jwt claims", "error", err)
		return nil, errInvalidClaims
	}
	return &user, nil
}

// Sentinel errors for extractUser
var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
)

type errorString string

func (e errorString) Error() string { return string(e) }

func restrictionMessage(status *domain.AccountStatus) string {
	if status.IsBlocked {
		if status.BlockMessage != "" {
			return "Account blocked: " + status.BlockMessage
		}
		return "Account blocked"
	}
	msg := "Account suspended"
	if status.SuspendedUntil != nil {
		msg += " until " + status.SuspendedUntil.UTC().Format(time.RFC3339)
	}
	if status.SuspendMessage != "" {
		msg += fmt.Sprintf(": %s", status.SuspendMessage)
	}
	return msg
}

func (a *Auth) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) auth(roles []domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				switch err {
				case errNoToken:
					utils.WriteError(w, http.StatusUnauthorized, "Please sign-in")
				case errInvalidClaims:
					utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if a.accounts != nil {
				if status := a.accounts.Restriction(user.Id); status != nil {
					if status.IsBlocked {
						a.clearCookie(w)
					}
					utils.WriteError(w, http.StatusForbidden, restrictionMessage(status))
					return
				}
			}

			if !hasRole(user.Role, roles) {
				utils.WriteError(w, http.StatusForbidden, "Access denied for role "+string(user.Role))
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
