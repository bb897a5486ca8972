package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/projectmatch/internal/observability/metrics"
	"github.com/aryan0dhankhar/projectmatch/internal/security/audit"
	"github.com/aryan0dhankhar/projectmatch/internal/security/auth"
)

// RequestIDHeader carries the correlation id in and out of the service
const RequestIDHeader = "X-Request-ID"

// Authenticator resolves a bearer token to the caller it was issued to
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

var publicPaths = map[string]bool{
	"/api/signup": true,
	"/api/login":  true,
	"/healthz":    true,
	"/readyz":     true,
	"/metrics":    true,
}

// IsPublic reports whether path is served without a token
func IsPublic(path string) bool {
	return publicPaths[path]
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestID assigns a correlation id and logs one line per completed request
func RequestID(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(audit.WithRequestID(r.Context(), id)))

			log.Info("request completed",
				slog.String("request_id", id),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// CORS answers preflight requests and tags responses for the allowed origins.
// A "*" entry allows every origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				h := w.Header()
				if allowAll {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
				h.Set("Access-Control-Max-Age", strconv.Itoa(int((time.Hour).Seconds())))
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// JWTMiddleware attaches the caller identity for requests with a bearer token.
// Invalid tokens are always rejected; missing tokens only when requireAuth is set.
func JWTMiddleware(authn Authenticator, requireAuth bool, auditLog *audit.Logger, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || IsPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if requireAuth {
					auditLog.LogDenied(r.Context(), r.URL.Path, "missing token")
					writeJSONError(w, http.StatusUnauthorized, "missing auth")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid auth")
				return
			}

			identity, err := authn.Authenticate(r.Context(), tokenString)
			if err != nil {
				log.Debug("token rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				auditLog.LogDenied(r.Context(), r.URL.Path, "invalid token")
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// RateLimitMiddleware throttles the given paths per client IP.
// A limiter failure lets the request through.
func RateLimitMiddleware(limiter Limiter, paths []string, log *slog.Logger) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(paths))
	for _, p := range paths {
		limited[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || !limited[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ok, err := limiter.Allow(r.Context(), r.URL.Path+"|"+ClientIP(r))
			if err != nil {
				log.Warn("rate limiter unavailable", slog.String("error", err.Error()))
				ok = true
			}
			if !ok {
				metrics.ObserveRateLimited(r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware writes an audit line for every mutating API call
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action, mutating := auditActions[r.Method]
			if !mutating || !strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api/login" {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			resource, resourceID := splitResource(r.URL.Path)
			entry := audit.Entry{
				Action:     action,
				Resource:   resource,
				ResourceID: resourceID,
				Status:     "success",
				Details:    strconv.Itoa(rec.status),
			}
			if rec.status >= http.StatusBadRequest {
				entry.Status = "failure"
			}
			if id, ok := auth.IdentityFrom(r.Context()); ok {
				entry.UserID = id.UserID
				entry.Role = string(id.Role)
			}
			auditLog.LogAction(r.Context(), entry)
		})
	}
}

var auditActions = map[string]string{
	http.MethodPost:   "create",
	http.MethodPut:    "update",
	http.MethodDelete: "delete",
}

// splitResource turns /api/project/tag/12 into ("project/tag", "12")
func splitResource(path string) (string, string) {
	rest := strings.Trim(strings.TrimPrefix(path, "/api/"), "/")
	i := strings.LastIndex(rest, "/")
	if i < 0 {
		return rest, ""
	}
	if _, err := strconv.ParseInt(rest[i+1:], 10, 64); err == nil {
		return rest[:i], rest[i+1:]
	}
	return rest, ""
}

// ClientIP returns the first X-Forwarded-For hop, or the peer address
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
