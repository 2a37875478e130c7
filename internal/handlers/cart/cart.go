package cart

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/idalloc"
	"fakestore_back_end/internal/models"
	"fakestore_back_end/internal/reconcile"
)

type cartPayload struct {
	UserID   *int         `json:"userId"`
	Date     *time.Time   `json:"date"`
	Products []patchEntry `json:"products"`
}

// GetAllCarts renvoie tous les paniers avec leurs produits.
func GetAllCarts(c *gin.Context) {
	session, err := database.GetCartsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	carts := []models.Cart{}
	iter := session.Query(`SELECT cart_id, user_id, date FROM carts`).Iter()
	var cart models.Cart
	for iter.Scan(&cart.ID, &cart.UserID, &cart.Date) {
		carts = append(carts, cart)
		cart = models.Cart{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture paniers"})
		return
	}

	for i := range carts {
		items, err := fetchItems(session, carts[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture lignes de panier"})
			return
		}
		carts[i].Products = itemList(items)
	}

	c.JSON(http.StatusOK, carts)
}

// GetCart renvoie un panier et ses produits.
func GetCart(c *gin.Context) {
	cartID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID panier invalide"})
		return
	}

	session, err := database.GetCartsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	cart, err := fetchCart(session, cartID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Panier introuvable"})
		return
	}

	items, err := fetchItems(session, cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture lignes de panier"})
		return
	}
	cart.Products = itemList(items)

	c.JSON(http.StatusOK, cart)
}

// GetUserCarts renvoie les paniers d'un utilisateur, via l'index
// carts_by_user. Utilisateur inconnu → 404, utilisateur sans panier → [].
func GetUserCarts(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	exists, err := userExists(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	session, err := database.GetCartsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT cart_id FROM carts_by_user WHERE user_id = ?`, userID).Iter()
	var cartIDs []int
	var cartID int
	for iter.Scan(&cartID) {
		cartIDs = append(cartIDs, cartID)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture paniers"})
		return
	}

	carts := []models.Cart{}
	for _, id := range cartIDs {
		cart, err := fetchCart(session, id)
		if err != nil {
			continue // index en avance sur une suppression concurrente
		}
		items, err := fetchItems(session, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture lignes de panier"})
			return
		}
		cart.Products = itemList(items)
		carts = append(carts, *cart)
	}

	c.JSON(http.StatusOK, carts)
}

// CreateCart crée un panier après validation du propriétaire et de chaque
// produit référencé. L'écriture passe par un batch loggé.
func CreateCart(c *gin.Context) {
	var payload cartPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if payload.UserID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId requis"})
		return
	}

	exists, err := userExists(*payload.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	// Validation complète avant toute écriture
	items, err := itemsFromPayload(payload.Products, productExists())
	if err != nil {
		switch {
		case reconcile.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case reconcile.IsInvalidQuantity(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification produit"})
		}
		return
	}

	cartID, err := idalloc.Next(idalloc.EntityCart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur attribution ID"})
		return
	}

	date := payload.Date
	if date == nil {
		now := time.Now().UTC()
		date = &now
	}

	cart := &models.Cart{ID: cartID, UserID: *payload.UserID, Date: date}

	session, err := database.GetCartsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := saveItems(session, cart, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du panier"})
		return
	}

	cart.Products = itemList(items)
	log.Printf("✅ Panier %d créé pour l'utilisateur %d", cart.ID, cart.UserID)
	c.JSON(http.StatusCreated, cart)
}
