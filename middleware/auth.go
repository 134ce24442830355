package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"food-delivery-admin/session"
)

const (
	ctxOperatorID = "operatorID"
	ctxEmail      = "email"
	ctxToken      = "token"
)

// AuthRequired validates the session token and injects the operator into context
func AuthRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearer(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		claims, err := sessions.Verify(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set(ctxOperatorID, claims.OperatorID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxToken, tokenStr)
		c.Next()
	}
}

// bearer reads the token from the Authorization header. EventSource clients
// cannot set headers, so SSE routes may pass it as ?token=.
func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), true
	}
	if t := c.Query("token"); t != "" {
		return t, true
	}
	return "", false
}

// GetOperatorID extracts the caller operator ID from context
func GetOperatorID(c *gin.Context) string {
	return c.GetString(ctxOperatorID)
}

// GetEmail extracts the caller email from context
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetToken returns the raw session token of the caller
func GetToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
