package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fakestore_back_end/internal/cache"
	"fakestore_back_end/internal/utils"
)

// AuthRequired valide le Bearer token : signature, expiration, blacklist.
// Les claims utiles sont posés dans le contexte Gin pour les handlers.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token manquant"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Format Authorization invalide"})
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide ou expiré"})
			c.Abort()
			return
		}

		// Token révoqué par un logout antérieur ?
		if cache.IsTokenBlacklisted(claims.ID) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token révoqué"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("token_id", claims.ID)
		c.Set("access_claims", claims)

		c.Next()
	}
}
