package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers/render"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingSubject = errors.New("token has no subject")

// JWTAuth validates HS256 bearer tokens issued by the identity provider and attaches the token
// subject to the request as the caller's identity.
type JWTAuth struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTAuth creates a JWTAuth. When issuer is empty the iss claim is not checked.
func NewJWTAuth(secret []byte, issuer string) *JWTAuth {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTAuth{secret: secret, parser: jwt.NewParser(opts...)}
}

// Identify parses tokenString and returns the identity it names.
func (a *JWTAuth) Identify(tokenString string) (access.Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := a.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return access.Identity{}, fmt.Errorf("failed to validate token: %w", err)
	}
	if claims.Subject == "" {
		return access.Identity{}, errMissingSubject
	}
	return access.Identity{ExternalID: claims.Subject}, nil
}

// Middleware rejects requests without a valid bearer token.
func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Authorization header required")
			return
		}
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			unauthorized(w, "Invalid authorization header format")
			return
		}

		identity, err := a.Identify(token)
		if err != nil {
			unauthorized(w, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(access.ContextWithIdentity(r.Context(), identity)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	render.JSON(w, http.StatusUnauthorized, api.Error{Error: message, Kind: string(ledger.KindUnauthenticated)})
}
