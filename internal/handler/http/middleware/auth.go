package middleware

import (
	"net/http"

	"github.com/timenest/timenest-backend-go/internal/handler/http/response"
	"github.com/timenest/timenest-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests whose verified token is missing or is not an access token.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid or missing token")
			return
		}

		if claims.Type != jwt.TokenTypeAccess {
			response.HandleError(w, jwt.ErrInvalidClaims)
			return
		}

		next.ServeHTTP(w, r)
	})
}
