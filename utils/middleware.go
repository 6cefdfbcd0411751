package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the user ID from the JWT token and stores
// it in the request context for downstream handlers.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// ContextUserID reads the ID set by UserIDFromTokenMiddleware.
func ContextUserID(ctx iris.Context) uint {
	return ctx.Values().Get("userID").(uint)
}
