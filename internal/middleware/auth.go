package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bookflaz/bookflaz/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"
)

type actorContextKey string

const actorIDContextKey actorContextKey = "actor_id"

type Auth struct {
	cfg *config.AuthConfig
}

func NewAuth(cfg *config.AuthConfig) *Auth {
	return &Auth{cfg: cfg}
}

// RequireAuth validates the bearer token and stores the authenticated
// cliente id in the request context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil {
			http.Error(w, "Invalid token claims", http.StatusUnauthorized)
			return
		}
		actorID, err := uuid.Parse(sub)
		if err != nil {
			http.Error(w, "Invalid token subject", http.StatusUnauthorized)
			return
		}

		if txn := newrelic.FromContext(r.Context()); txn != nil {
			txn.AddAttribute("cliente.id", actorID.String())
		}

		ctx := context.WithValue(r.Context(), actorIDContextKey, actorID)

		// Downstream log lines carry the authenticated cliente
		enriched := GetLogger(ctx).With().Str("cliente_id", actorID.String()).Logger()
		ctx = context.WithValue(ctx, LoggerKey, &enriched)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorID retrieves the authenticated cliente id from the context.
// The zero UUID means the request was not authenticated.
func GetActorID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(actorIDContextKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// IssueToken signs a token for the given cliente. Used by the login flow.
func IssueToken(cfg *config.AuthConfig, clienteID uuid.UUID, issuedAt, expiresAt int64) (string, error) {
	claims := jwt.MapClaims{
		"sub": clienteID.String(),
		"iat": issuedAt,
		"exp": expiresAt,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
