package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// userIDKey holds the hex ObjectID of the caller once AuthMiddleware passes.
const userIDKey = "userID"

var (
	errMissingAuthHeader = errors.New("Authorization header is missing")
	errMalformedBearer   = errors.New("Authorization header format must be Bearer {token}")
	errMissingSubject    = errors.New("Invalid token or missing claims")
)

// jwtClaims must stay in step with the claims AuthService signs.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware rejects requests without a valid HS256 bearer token and
// stores the caller's user ID for requireUserID.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	}

	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		userID, err := parseUserToken(raw, keyFunc)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			abortWithError(c, http.StatusUnauthorized, "Token has expired")
			return
		case errors.Is(err, errMissingSubject):
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		case err != nil:
			abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
// The scheme is case-insensitive.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", errMalformedBearer
	}
	return token, nil
}

// parseUserToken verifies the signature and expiry and returns the uid claim.
// Tokens without an expiry are refused.
func parseUserToken(raw string, keyFunc jwt.Keyfunc) (string, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, keyFunc)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", errMissingSubject
	}
	if claims.ExpiresAt == nil {
		return "", jwt.ErrTokenExpired
	}
	return claims.UserID, nil
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// requireUserID aborts with 401 when the route was reached without a caller,
// which only happens if a handler is mounted outside the protected group.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDKey)
	if userID == "" {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return "", false
	}
	return userID, true
}
