package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/ratelimiter"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

// Identity maps a request to the key its bucket is stored under.
type Identity func(r *http.Request) (string, error)

// RateLimit rejects requests with 429 once the caller's bucket is empty.
// Admins and staff are never limited.
func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity Identity) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(rl.RefillInterval().Seconds())))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && (user.Role == domain.RoleAdmin || user.Role == domain.RoleStaff) {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				w.Header().Set("Retry-After", retryAfter)
				utils.WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GlobalRateLimit shares one bucket between every caller.
func GlobalRateLimit(rl *ratelimiter.UserRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetUserIDFromContext is usable after NeedAuth has run.
func GetUserIDFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", internal_errors.Unauthorized("Please sign-in")
	}
	return "user_" + strconv.FormatInt(user.Id, 10), nil
}

// GetIP extracts the client IP from RemoteAddr only. Forwarded headers are
// client controlled and would let anyone pick their own bucket.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", internal_errors.BadRequest("Invalid client address")
	}
	return "ip_" + ip, nil
}

// GetEmailFromBody reads the email field of a JSON body and restores the
// body for the handler.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", internal_errors.BadRequest("Failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", internal_errors.BadRequest("Body is invalid json")
	}
	email := strings.ToLower(strings.TrimSpace(data.Email))
	if email == "" {
		return "", internal_errors.BadRequest("Invalid field email: required")
	}
	return "email_" + email, nil
}
