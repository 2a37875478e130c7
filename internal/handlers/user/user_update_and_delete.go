package user

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"fakestore_back_end/internal/cache"
	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/fieldmask"
	"fakestore_back_end/internal/utils"
)

// UpdateUser sert PUT et PATCH : seuls les champs présents sont modifiés,
// les objets imbriqués sont fusionnés clé par clé.
func UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	mask, err := fieldmask.FromJSON(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	var payload userPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	u, err := fetchUser(session, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	oldUsername := u.Username
	oldEmail := u.Email

	passwordChanged := mergeUser(u, payload, mask)

	// Unicité re-vérifiée quand username/email changent
	if u.Username != oldUsername {
		if owner, taken, err := usernameTaken(session, u.Username); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification unicité"})
			return
		} else if taken && owner != userID {
			c.JSON(http.StatusConflict, gin.H{"error": "Ce nom d'utilisateur est déjà pris"})
			return
		}
	}
	if u.Email != oldEmail {
		if owner, taken, err := emailTaken(session, u.Email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification unicité"})
			return
		} else if taken && owner != userID {
			c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
			return
		}
	}

	if passwordChanged {
		hashed, err := utils.HashPassword(payload.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
			return
		}
		u.Password = hashed
	}

	if err := saveUser(session, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	// Déplacement des entrées d'index si les clés uniques ont changé
	if u.Username != oldUsername || u.Email != oldEmail {
		batch := session.NewBatch(gocql.LoggedBatch)
		if u.Username != oldUsername {
			batch.Query(`DELETE FROM users_by_username WHERE username = ?`, oldUsername)
			batch.Query(`INSERT INTO users_by_username (username, user_id) VALUES (?, ?)`, u.Username, u.ID)
		}
		if u.Email != oldEmail {
			batch.Query(`DELETE FROM users_by_email WHERE email = ?`, oldEmail)
			batch.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`, u.Email, u.ID)
		}
		if err := session.ExecuteBatch(batch); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour index"})
			return
		}
	}

	c.JSON(http.StatusOK, u)
}

// DeleteUser supprime l'utilisateur et toutes ses données : adresse, paniers
// (avec leurs lignes et entrées d'index) et refresh tokens en cours.
func DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	u, err := fetchUser(usersSession, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	log.Printf("🗑️ Début de la suppression du compte %d (%s)", userID, u.Email)

	// =============================================
	// 1. CASCADE : PANIERS DE L'UTILISATEUR
	// =============================================

	cartsSession, err := database.GetCartsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := cartsSession.Query(`SELECT cart_id FROM carts_by_user WHERE user_id = ?`, userID).Iter()
	var cartIDs []int
	var cartID int
	for iter.Scan(&cartID) {
		cartIDs = append(cartIDs, cartID)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture paniers"})
		return
	}

	for _, id := range cartIDs {
		batch := cartsSession.NewBatch(gocql.LoggedBatch)

		// Entrées d'index inverse des lignes du panier
		itemIter := cartsSession.Query(`SELECT product_id FROM cart_items WHERE cart_id = ?`, id).Iter()
		var productID int
		for itemIter.Scan(&productID) {
			batch.Query(`DELETE FROM cart_items_by_product WHERE product_id = ? AND cart_id = ?`, productID, id)
		}
		if err := itemIter.Close(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture lignes de panier"})
			return
		}

		batch.Query(`DELETE FROM cart_items WHERE cart_id = ?`, id)
		batch.Query(`DELETE FROM carts WHERE cart_id = ?`, id)

		if err := cartsSession.ExecuteBatch(batch); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
			return
		}
	}

	if err := cartsSession.Query(`DELETE FROM carts_by_user WHERE user_id = ?`, userID).Exec(); err != nil {
		log.Printf("⚠️ Erreur suppression carts_by_user: %v", err)
	}
	log.Printf("✅ %d panier(s) supprimé(s)", len(cartIDs))

	// =============================================
	// 2. ADRESSE, INDEX ET LIGNE UTILISATEUR
	// =============================================

	batch := usersSession.NewBatch(gocql.LoggedBatch)
	batch.Query(`DELETE FROM addresses WHERE user_id = ?`, userID)
	batch.Query(`DELETE FROM users_by_username WHERE username = ?`, u.Username)
	batch.Query(`DELETE FROM users_by_email WHERE email = ?`, u.Email)
	batch.Query(`DELETE FROM users WHERE user_id = ?`, userID)
	if err := usersSession.ExecuteBatch(batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression du compte"})
		return
	}

	// =============================================
	// 3. RÉVOCATION DES CREDENTIALS EN COURS
	// =============================================

	if err := cache.DeleteAllRefreshTokens(userID); err != nil {
		log.Printf("⚠️ Erreur révocation refresh tokens: %v", err)
	}

	log.Printf("✅ Utilisateur %d (%s) complètement supprimé", userID, u.Email)

	c.JSON(http.StatusOK, gin.H{
		"id":       u.ID,
		"email":    u.Email,
		"username": u.Username,
	})
}
