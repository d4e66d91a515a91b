package middlewares

import (
	"net/http"
	"strings"

	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/gin-gonic/gin"
)

// TokenFromRequest reads a Bearer header first and the token cookie second.
func TokenFromRequest(ctx *gin.Context) string {
	fields := strings.Fields(ctx.GetHeader("Authorization"))
	if len(fields) == 2 && strings.EqualFold(fields[0], "bearer") {
		return fields[1]
	}
	if cookie, err := ctx.Cookie(services.TOKEN_COOKIE); err == nil {
		return cookie
	}
	return ""
}

func claimsOf(ctx *gin.Context, auth *services.AuthService) (*services.Claims, error) {
	return auth.ParseToken(TokenFromRequest(ctx))
}

func JWTMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := claimsOf(ctx, auth)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, &res.Response{
				Success: false,
				Message: "Unauthorized",
			})
			return
		}
		ctx.Set(services.CLAIMS_KEY, claims)
		ctx.Next()
	}
}

// OptionalAuth stores the claims when the visitor is logged in and lets
// everybody through. HTML pages use it to adapt the navigation.
func OptionalAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, err := claimsOf(ctx, auth); err == nil {
			ctx.Set(services.CLAIMS_KEY, claims)
		}
		ctx.Next()
	}
}
