package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// Claims is the token payload. Subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTAuth requires a valid HS256 bearer token and stores the caller on the context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				return unauthorized(c, "invalid authorization header format")
			}

			claims, err := ParseToken(parts[1], secret)
			if err != nil {
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(userIDKey, claims.Subject)
			c.Set(userEmailKey, claims.Email)
			return next(c)
		}
	}
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// IssueToken signs a token for userID. Used by tests and local tooling;
// production tokens come from the identity provider.
func IssueToken(userID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(secret))
}

func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func UserEmail(c echo.Context) string {
	email, _ := c.Get(userEmailKey).(string)
	return email
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msg})
}
