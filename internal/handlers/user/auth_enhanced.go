package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"fakestore_back_end/internal/cache"
	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/utils"
)

type refreshPayload struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshAccessToken échange un refresh token valide et encore actif
// contre un nouvel access token. Le refresh token reste utilisable
// jusqu'à son logout ou son expiration.
func RefreshAccessToken(c *gin.Context) {
	var payload refreshPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token requis"})
		return
	}

	claims, err := utils.ParseRefreshToken(payload.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token invalide ou expiré"})
		return
	}

	// Un token signé mais absent de la whitelist a été révoqué
	if !cache.IsRefreshTokenActive(claims.UserID, claims.ID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token révoqué"})
		return
	}

	username := ""
	if u, err := lookupUsername(claims.UserID); err == nil {
		username = u
	}

	accessToken, _, err := utils.GenerateAccessToken(claims.UserID, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      accessToken,
		"token_type": "Bearer",
		"expires_in": int(utils.AccessTokenLifetime.Seconds()),
	})
}

// Logout révoque le refresh token fourni et blackliste l'access token
// de la requête. Révoquer deux fois le même refresh token renvoie 401.
func Logout(c *gin.Context) {
	var payload refreshPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token requis"})
		return
	}

	claims, err := utils.ParseRefreshToken(payload.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token invalide ou expiré"})
		return
	}

	// Le refresh token doit appartenir à l'utilisateur authentifié
	if claims.UserID != c.GetInt("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Ce refresh token ne vous appartient pas"})
		return
	}

	if err := cache.DeleteRefreshToken(claims.UserID, claims.ID); err != nil {
		if errors.Is(err, redis.Nil) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token déjà révoqué"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la déconnexion"})
		return
	}

	// L'access token courant est blacklisté jusqu'à son expiration naturelle
	if raw, ok := c.Get("access_claims"); ok {
		if accessClaims, ok := raw.(*utils.AccessClaims); ok {
			if err := cache.BlacklistToken(accessClaims.ID, utils.GetTokenExpirationDuration(accessClaims)); err != nil {
				log.Printf("⚠️ Erreur blacklist access token: %v", err)
			}
		}
	}

	log.Printf("✅ Déconnexion de l'utilisateur %d", claims.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

// LogoutAll révoque tous les refresh tokens de l'utilisateur authentifié.
// Idempotent : sans session active la réponse reste 200.
func LogoutAll(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := cache.DeleteAllRefreshTokens(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la déconnexion"})
		return
	}

	if tokenID := c.GetString("token_id"); tokenID != "" {
		if raw, ok := c.Get("access_claims"); ok {
			if accessClaims, ok := raw.(*utils.AccessClaims); ok {
				if err := cache.BlacklistToken(tokenID, utils.GetTokenExpirationDuration(accessClaims)); err != nil {
					log.Printf("⚠️ Erreur blacklist access token: %v", err)
				}
			}
		}
	}

	log.Printf("✅ Déconnexion globale de l'utilisateur %d", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Toutes les sessions ont été déconnectées"})
}

// lookupUsername retrouve le username pour reconstituer les claims
// d'un nouvel access token lors d'un refresh.
func lookupUsername(userID int) (string, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return "", err
	}
	var username string
	if err := session.Query(`SELECT username FROM users WHERE user_id = ?`, userID).Scan(&username); err != nil {
		return "", err
	}
	return username, nil
}
