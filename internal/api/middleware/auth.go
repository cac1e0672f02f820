package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rohits-web03/warbler/internal/api/services"
	"github.com/rohits-web03/warbler/internal/repositories"
	"github.com/rohits-web03/warbler/internal/utils"
	"github.com/rs/zerolog"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenCookie is the cookie login sets.
const TokenCookie = "token"

type Auth struct {
	Tokens   *services.TokenIssuer
	Denylist *repositories.TokenDenylist
	Log      zerolog.Logger
}

// Require rejects requests without a valid, unrevoked token. The token is read
// from the Authorization bearer header first and the token cookie second.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := bearerToken(r)
		if tokenStr == "" {
			unauthorized(w)
			return
		}

		claims, err := a.Tokens.Parse(tokenStr)
		if err != nil {
			unauthorized(w)
			return
		}

		revoked, err := a.Denylist.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			a.Log.Error().Err(err).Msg("token denylist lookup failed")
			utils.JSONResponse(w, http.StatusServiceUnavailable, utils.Payload{
				Success: false,
				Message: "Session store unavailable",
			})
			return
		}
		if revoked {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Claims returns the claims Require stored on ctx.
func Claims(ctx context.Context) *services.Claims {
	if c, ok := ctx.Value(claimsKey).(*services.Claims); ok {
		return c
	}
	return nil
}

// UserID returns the authenticated user id, or 0.
func UserID(ctx context.Context) uint {
	if c := Claims(ctx); c != nil {
		return c.UserID
	}
	return 0
}

func bearerToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
		Success: false,
		Message: "Unauthorized",
	})
}
