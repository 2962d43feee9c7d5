package handlers

import (
	"feed-api/middleware"
	"feed-api/types"

	"github.com/gin-gonic/gin"
)

// Permission decides whether the current request may proceed. A non-nil
// error is returned to the client as is.
type Permission interface {
	Allow(c *gin.Context) error
}

type PermissionFunc func(c *gin.Context) error

func (f PermissionFunc) Allow(c *gin.Context) error { return f(c) }

// AllowAll lets every request through.
var AllowAll Permission = PermissionFunc(func(*gin.Context) error { return nil })

// RequireUser denies anonymous requests.
var RequireUser Permission = PermissionFunc(func(c *gin.Context) error {
	if c.GetInt(middleware.UserIDKey) == 0 {
		return types.PermissionDenied("Sorry, you are not allowed to do that.")
	}
	return nil
})

// Permissions holds one predicate per activity operation.
type Permissions struct {
	List   Permission
	Get    Permission
	Create Permission
}

// DefaultPermissions allows every operation.
func DefaultPermissions() Permissions {
	return Permissions{List: AllowAll, Get: AllowAll, Create: AllowAll}
}

func allow(p Permission, c *gin.Context) error {
	if p == nil {
		return nil
	}
	return p.Allow(c)
}
