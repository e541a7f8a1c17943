package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/service"
)

const currentUserKey = "current_user"

// JWTAuthMiddleware valida el access token y carga el usuario, que debe seguir existiendo.
func JWTAuthMiddleware(jwtSvc *service.JWTService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil || users == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			unauthorized(c, "missing token")
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.ParseAccessToken(token)
		if err != nil {
			if errors.Is(err, service.ErrJWTExpired) {
				unauthorized(c, "token expired")
				return
			}
			unauthorized(c, "could not validate credentials")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				unauthorized(c, "could not validate credentials")
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser obtiene el usuario autenticado desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	c.Abort()
}
