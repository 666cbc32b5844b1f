// Package identity threads the authenticated caller through gin handlers so
// mutating operations can record who acted.
package identity

import "github.com/gin-gonic/gin"

const contextKey = "identity.actor"

// Anonymous is used when no authenticated caller is attached.
const Anonymous = "anonymous"

// Set attaches the acting identity to the request context.
func Set(c *gin.Context, actor string) {
	c.Set(contextKey, actor)
}

// FromContext returns the acting identity, or Anonymous when unset.
func FromContext(c *gin.Context) string {
	if actor := c.GetString(contextKey); actor != "" {
		return actor
	}
	return Anonymous
}
