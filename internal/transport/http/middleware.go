package http

import (
	"basti-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity извлекает идентичность пользователя из заголовков шлюза
// и кладёт её в контекст запроса для сервисного слоя
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(401, NewUnauthorizedError("missing identity"))
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(401, NewUnauthorizedError("invalid identity"))
			return
		}

		ctx := service.WithUserID(c.Request.Context(), userID)
		role := service.Role(c.GetHeader("X-User-Role"))
		if role == "" {
			role = service.RoleCustomer
		}
		ctx = service.WithRole(ctx, role)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
