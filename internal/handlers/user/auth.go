package user

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"fakestore_back_end/internal/cache"
	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/utils"
)

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authentifie par username/mot de passe et émet une paire
// access + refresh token. Échec identifiant et échec mot de passe
// renvoient le même message pour ne rien révéler.
func Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username et mot de passe requis"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	userID, found, err := usernameTaken(session, payload.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la connexion"})
		return
	}
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Nom d'utilisateur ou mot de passe incorrect"})
		return
	}

	u, err := fetchUser(session, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Nom d'utilisateur ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(payload.Password, u.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Nom d'utilisateur ou mot de passe incorrect"})
		return
	}

	accessToken, _, err := utils.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	refreshToken, refreshID, err := utils.GenerateRefreshToken(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	if err := cache.StoreRefreshToken(u.ID, refreshID, utils.RefreshTokenLifetime); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement session"})
		return
	}

	log.Printf("✅ Connexion réussie pour %s (id %d)", u.Username, u.ID)

	c.JSON(http.StatusOK, gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"token_type":    "Bearer",
		"expires_in":    int(utils.AccessTokenLifetime.Seconds()),
		"userId":        u.ID,
	})
}
