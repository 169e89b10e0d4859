package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aldousari/sooqfresh-backend/api/responses"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy throttles an auth surface with fixed windows counted
// per client IP and per (hashed) email. Either limit may be zero to disable
// that dimension.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

func (p AuthRateLimitPolicy) ipKey(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("rl:ip:%s:%s", p.normalizedName(), ip)
}

func (p AuthRateLimitPolicy) emailKey(hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("rl:email:%s:%s", p.normalizedName(), hash)
}

// AuthRateLimit guards login and registration against brute force. The email
// dimension requires buffering the body to peek at the address; the buffer is
// restored for the downstream handler. Emails are hashed before they become
// Redis keys or log fields.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if handled := checkIPLimit(ctx, policy, store, logg, w, r); handled {
				return
			}
			if handled := checkEmailLimit(ctx, policy, store, logg, w, r); handled {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkIPLimit reports true when it wrote a response (blocked or errored).
func checkIPLimit(ctx context.Context, policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger, w http.ResponseWriter, r *http.Request) bool {
	if policy.ipLimit <= 0 {
		return false
	}
	ip := clientIP(r)
	key := policy.ipKey(ip)
	if key == "" {
		return false
	}
	allowed, count, err := countAttempt(ctx, store, key, policy.window, int64(policy.ipLimit))
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if !allowed {
		respondRateLimited(ctx, logg, w, policy, "ip", ip, "", count, policy.ipLimit)
		return true
	}
	return false
}

// checkEmailLimit reports true when it wrote a response.
func checkEmailLimit(ctx context.Context, policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger, w http.ResponseWriter, r *http.Request) bool {
	if policy.emailLimit <= 0 {
		return false
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
		return true
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	email := normalizeEmail(extractEmail(body))
	if email == "" {
		return false
	}
	hash := hashValue(email)
	key := policy.emailKey(hash)
	if key == "" {
		return false
	}
	allowed, count, err := countAttempt(ctx, store, key, policy.window, int64(policy.emailLimit))
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if !allowed {
		respondRateLimited(ctx, logg, w, policy, "email", "", hash, count, policy.emailLimit)
		return true
	}
	return false
}

func countAttempt(ctx context.Context, store rateLimiterStore, key string, window time.Duration, limit int64) (bool, int64, error) {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, scope, ip, emailHash string, count int64, limit int) {
	if logg != nil {
		fields := map[string]any{
			"scope":          scope,
			"policy":         policy.normalizedName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		}
		if ip != "" {
			fields["ip"] = ip
		}
		if emailHash != "" {
			fields["email_hash"] = emailHash
		}
		logg.Warn(logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
