package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/pkg/jwthelper"
)

// AdminIDKey is the context key the gate stores the authenticated admin
// id under.
const AdminIDKey = "adminID"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT gates administrative routes. Unauthenticated requests get 401;
// this API surface is JSON, so there is no login redirect.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.RenderErr(ctx, response.ErrUnauthorized("missing bearer token"))
			ctx.Abort()

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, parts[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid token"))
			ctx.Abort()

			return
		}

		ctx.Set(AdminIDKey, claims.AdminID)
		ctx.Next()
	}
}
