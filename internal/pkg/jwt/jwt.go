package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/timenest/timenest-backend-go/internal/domain/employee"
)

const TokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

// Claims is the identity the edge verified and this service consumes.
type Claims struct {
	UserID string
	Email  string
	Role   employee.Role
	Type   string
}

func (c Claims) IsAdmin() bool {
	return c.Role == employee.RoleAdmin
}

type Service interface {
	GenerateAccessToken(userID string, email string, role employee.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role employee.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the claims jwtauth.Verifier stored on the request context.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if token == nil {
		return Claims{}, ErrInvalidClaims
	}

	var c Claims
	c.UserID, _ = raw["user_id"].(string)
	c.Email, _ = raw["email"].(string)
	c.Type, _ = raw["type"].(string)
	role, _ := raw["role"].(string)
	c.Role = employee.Role(role)

	if c.UserID == "" || !c.Role.IsValid() {
		return Claims{}, ErrInvalidClaims
	}
	return c, nil
}
