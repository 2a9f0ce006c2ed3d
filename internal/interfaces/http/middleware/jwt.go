package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/infrastructure/auth"
	"github.com/pantryfresh/backend/internal/infrastructure/logger"
	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey = "jwt_claims"
	JWTUserIDKey = "jwt_user_id"
	JWTIsAdmin   = "jwt_is_admin"

	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates bearer tokens and decides admin access
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
	IsAdmin(claims *auth.Claims) bool
}

// JWTAuth requires a valid bearer token. Claims, the user id and the admin
// flag are stored on the gin context; the user id also goes on the request
// context so log lines carry it.
func JWTAuth(validator TokenValidator, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			rejectToken(c, log, auth.ErrInvalidToken, "Authentication required")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			rejectToken(c, log, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			rejectToken(c, log, err, "")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTIsAdmin, validator.IsAdmin(claims))
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func rejectToken(c *gin.Context, log *zap.Logger, err error, message string) {
	logger.For(c.Request.Context(), log).Debug("jwt rejected",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)

	code := dto.ErrCodeTokenInvalid
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case message == "":
		message = "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// RequireAdmin rejects callers whose token does not carry the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetClaims(c) == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !c.GetBool(JWTIsAdmin) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// GetClaims returns the validated claims, or nil on unauthenticated routes
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// CurrentActor returns the authenticated caller as an order actor
func CurrentActor(c *gin.Context) (order.Actor, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return order.Actor{}, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return order.Actor{}, false
	}
	role := order.ActorRoleCustomer
	if c.GetBool(JWTIsAdmin) {
		role = order.ActorRoleAdmin
	}
	return order.Actor{ID: id, Role: role}, true
}
