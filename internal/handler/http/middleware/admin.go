package middleware

import (
	"net/http"

	"github.com/timenest/timenest-backend-go/internal/handler/http/response"
	"github.com/timenest/timenest-backend-go/internal/pkg/jwt"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, jwt.ErrInvalidClaims)
			return
		}

		if !claims.IsAdmin() {
			response.HandleError(w, response.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
