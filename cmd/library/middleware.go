package main

import (
	"errors"
	"net/http"

	"library_rental/pkg/auth"
	"library_rental/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	identityKey     = "identity"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDHeader, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// requireAuth reloads the token's user on every request, so deleted
// accounts are rejected and role changes apply immediately.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimed, err := issuer.Parse(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		user, err := users.Get(c.Request.Context(), claimed.UserID)
		if errors.Is(err, errs.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(identityKey, users.Identity(user))
		c.Next()
	}
}

// requireRole must run after requireAuth.
func requireRole(allowed func(auth.Role) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := currentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !allowed(id.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
