package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/church-members-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/pkg/jwthelper"
)

const sessionKey = "session"

var (
	errMissingToken = errors.New("missing bearer token")
	errNoSession    = errors.New("no session on the request")
	errForbidden    = errors.New("you are not allowed to perform this action")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores the
// caller's session on the context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, strings.TrimSpace(tokenString))
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
			return
		}

		role, err := domain.ParseRole(claims.Role)
		if err != nil || claims.UserID == 0 {
			response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
			return
		}

		ctx.Set(sessionKey, domain.Session{UserID: claims.UserID, Role: role})
		ctx.Next()
	}
}

// RequireRole must run after VerifyJWT.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session, ok := SessionFrom(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errNoSession))
			return
		}

		for _, r := range roles {
			if session.Role == r {
				ctx.Next()
				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(errForbidden))
	}
}

func SessionFrom(ctx *gin.Context) (domain.Session, bool) {
	v, ok := ctx.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := v.(domain.Session)
	return session, ok
}
