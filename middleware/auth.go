// Package middleware carries the gin middleware shared across HTTP routes.
package middleware

import (
	"strings"

	usermodel "NProject/module/user/model"
	"NProject/service/notes"
	"NProject/tools/apiresp"
	"NProject/tools/errs"

	"github.com/gin-gonic/gin"
)

const ctxIdentityKey = "auth.identity"

// Auth resolves the bearer token on the request and attaches the caller's
// identity to the gin context; requests without a valid token stop here.
func Auth(resolver notes.TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			apiresp.Fail(c, errs.ErrTokenInvalid)
			c.Abort()
			return
		}
		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			apiresp.Fail(c, err)
			c.Abort()
			return
		}
		c.Set(ctxIdentityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity attached by Auth, or nil on routes that
// skipped it.
func IdentityFrom(c *gin.Context) *usermodel.Identity {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*usermodel.Identity)
	return id
}

func tokenFromRequest(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader("Access-Token")); t != "" {
		return t
	}
	authz := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}
