package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"latent/pkg/utils"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// JWTAuthMiddleware authenticates the bearer token and stores the account id and email
// in the request context. It does not consult the account store: role and approval
// checks belong to the operations that need them.
func JWTAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {

	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.HandleServiceError(c, utils.ErrMissingToken)
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			LoggerFrom(c).Debug("rejected token",
				zap.Bool("expired", utils.IsExpired(err)),
				zap.Error(err))
			utils.HandleServiceError(c, utils.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.AccountID())
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentAccountID returns the authenticated account id set by JWTAuthMiddleware.
func CurrentAccountID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
