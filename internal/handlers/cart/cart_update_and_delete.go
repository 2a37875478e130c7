package cart

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/fieldmask"
	"fakestore_back_end/internal/models"
	"fakestore_back_end/internal/reconcile"
)

type patchEntry struct {
	ProductID *int `json:"productId"`
	Quantity  *int `json:"quantity"`
}

type patchPayload struct {
	UserID *int         `json:"userId"`
	Date   *time.Time   `json:"date"`
	Add    []patchEntry `json:"add"`
	Update []patchEntry `json:"update"`
	Remove []int        `json:"remove"`
}

// UpdateCart (PUT) remplace intégralement le contenu du panier par la
// liste fournie, après validation de chaque produit.
func UpdateCart(c *gin.Context) {
	cartID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID panier invalide"})
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

	var payload cartPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
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

	if payload.UserID != nil && *payload.UserID != cart.UserID {
		exists, err := userExists(*payload.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
			return
		}
	}

	before, err := fetchItems(session, cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture lignes de panier"})
		return
	}

	// Une liste products présente remplace l'intégralité des lignes ;
	// absente, les lignes existantes survivent.
	after := before
	if mask.Has("products") {
		after, err = itemsFromPayload(payload.Products, productExists())
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
	}

	if err := persistCart(session, cart, payload.UserID, payload.Date, before, after); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du panier"})
		return
	}

	cart.Products = itemList(after)
	c.JSON(http.StatusOK, cart)
}

// PatchCart réconcilie le panier avec les listes add/update/remove :
// add incrémente (ou crée la ligne), update fixe la quantité absolue,
// remove supprime en ignorant silencieusement les lignes absentes.
// Les trois phases s'appliquent dans cet ordre sur le même passage.
func PatchCart(c *gin.Context) {
	cartID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID panier invalide"})
		return
	}

	var payload patchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
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

	if payload.UserID != nil && *payload.UserID != cart.UserID {
		exists, err := userExists(*payload.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
			return
		}
	}

	patch := reconcile.Patch{}
	for _, e := range payload.Add {
		if e.ProductID == nil {
			continue
		}
		quantity := 1
		if e.Quantity != nil {
			quantity = *e.Quantity
		}
		patch.Add = append(patch.Add, reconcile.Entry{ProductID: *e.ProductID, Quantity: quantity})
	}
	for _, e := range payload.Update {
		if e.ProductID == nil {
			continue
		}
		patch.Update = append(patch.Update, reconcile.UpdateEntry{ProductID: *e.ProductID, Quantity: e.Quantity})
	}
	patch.Remove = payload.Remove

	before, err := fetchItems(session, cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture lignes de panier"})
		return
	}

	after, err := reconcile.Apply(before, patch, productExists())
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

	if err := persistCart(session, cart, payload.UserID, payload.Date, before, after); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du panier"})
		return
	}

	cart.Products = itemList(after)
	c.JSON(http.StatusOK, cart)
}

// persistCart écrit le delta avant/après et les changements d'en-tête
// dans un seul batch loggé. Un changement de propriétaire déplace aussi
// l'entrée carts_by_user. Met à jour cart en place.
func persistCart(session *gocql.Session, cart *models.Cart, newUserID *int, newDate *time.Time, before, after map[int]int) error {
	changes := reconcile.Diff(before, after)

	batch := session.NewBatch(gocql.LoggedBatch)

	if newUserID != nil && *newUserID != cart.UserID {
		batch.Query(`DELETE FROM carts_by_user WHERE user_id = ? AND cart_id = ?`, cart.UserID, cart.ID)
		batch.Query(`INSERT INTO carts_by_user (user_id, cart_id) VALUES (?, ?)`, *newUserID, cart.ID)
		cart.UserID = *newUserID
	}
	if newDate != nil {
		cart.Date = newDate
	}
	batch.Query(`INSERT INTO carts (cart_id, user_id, date) VALUES (?, ?, ?)`, cart.ID, cart.UserID, cart.Date)

	for productID, quantity := range changes.Upserts {
		batch.Query(`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)`,
			cart.ID, productID, quantity)
		batch.Query(`INSERT INTO cart_items_by_product (product_id, cart_id) VALUES (?, ?)`,
			productID, cart.ID)
	}
	for _, productID := range changes.Deletes {
		batch.Query(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cart.ID, productID)
		batch.Query(`DELETE FROM cart_items_by_product WHERE product_id = ? AND cart_id = ?`, productID, cart.ID)
	}

	return session.ExecuteBatch(batch)
}

// DeleteCart supprime le panier, ses lignes et toutes ses entrées d'index,
// puis renvoie l'état supprimé.
func DeleteCart(c *gin.Context) {
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

	batch := session.NewBatch(gocql.LoggedBatch)
	for productID := range items {
		batch.Query(`DELETE FROM cart_items_by_product WHERE product_id = ? AND cart_id = ?`, productID, cartID)
	}
	batch.Query(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	batch.Query(`DELETE FROM carts_by_user WHERE user_id = ? AND cart_id = ?`, cart.UserID, cartID)
	batch.Query(`DELETE FROM carts WHERE cart_id = ?`, cartID)
	if err := session.ExecuteBatch(batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression du panier"})
		return
	}

	cart.Products = itemList(items)
	log.Printf("🗑️ Panier %d supprimé", cartID)
	c.JSON(http.StatusOK, cart)
}
