package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cryptorates-service/internal/domain"
	"cryptorates-service/internal/infrastructure/logx"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const accessTokenCookie = "access_token"

var ErrInvalidToken = errors.New("invalid token")

type principalKey struct{}

// userID decodes a user_id claim issued either as a string or as a number.
type userID string

func (u *userID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = userID(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*u = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*u = userID(n.String())
	return nil
}

type claims struct {
	UserID userID `json:"user_id"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 access tokens issued elsewhere.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Principal validates tokenStr and returns the user it was issued to.
func (a *Authenticator) Principal(tokenStr string) (domain.PrincipalID, error) {
	if len(a.secret) == 0 || tokenStr == "" {
		return "", ErrInvalidToken
	}
	c := new(claims)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(tokenStr, c, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	id := firstNonEmpty(string(c.UserID), c.Subject)
	if id == "" {
		return "", ErrInvalidToken
	}
	return domain.PrincipalID(id), nil
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Middleware rejects requests without a valid token and puts the principal in ctx.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "no token provided")
			return
		}
		p, err := a.Principal(token)
		if err != nil {
			logx.WithFields(r.Context()).Debug("auth.rejected", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
	})
}

func withPrincipal(ctx context.Context, p domain.PrincipalID) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func currentPrincipal(ctx context.Context) (domain.PrincipalID, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.PrincipalID)
	return p, ok && p != ""
}
