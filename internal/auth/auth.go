// Package auth issues and verifies guest session tokens and resolves the
// bearer token on incoming requests to a (userID, projectID) pair. The
// service layer trusts the resolved pair and never sees a token.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/user"
)

// Context keys set by Middleware.
const (
	ctxUserID    = "auth.userID"
	ctxProjectID = "auth.projectID"
)

// IssueToken signs a session token for userID.
func IssueToken(secret string, ttl time.Duration, userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return tok, nil
}

// ParseToken verifies a session token and returns the user ID it names.
func ParseToken(secret, token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("auth: parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}
	return claims.Subject, nil
}

// Middleware resolves the Authorization bearer token to a user and stashes
// the (userID, projectID) pair in the request context. Requests without a
// valid token are rejected with 401.
func Middleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		u, err := user.Get(db, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(ctxUserID, u.ID)
		c.Set(ctxProjectID, u.ProjectID)
		c.Next()
	}
}

// UserID returns the authenticated user ID resolved by Middleware.
func UserID(c *gin.Context) string { return c.GetString(ctxUserID) }

// ProjectID returns the authenticated user's project ID.
func ProjectID(c *gin.Context) string { return c.GetString(ctxProjectID) }
