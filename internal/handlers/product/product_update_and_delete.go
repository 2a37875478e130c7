package product

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
	"fakestore_back_end/internal/services"
)

// UpdateProduct sert PUT et PATCH : seuls les champs présents dans le corps
// sont modifiés, les autres conservent leur valeur (sémantique de référence).
func UpdateProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
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

	var payload productPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p, err := fetchProduct(session, productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if err := mergeProduct(p, payload, mask); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := saveProduct(session, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	// 🔹 Invalider le cache après écriture
	cache.Products.InvalidateProduct(p.ID)
	go services.IndexProduct(*p)

	c.JSON(http.StatusOK, p)
}

// DeleteProduct supprime un produit et, en cascade explicite, toutes les
// lignes de panier qui le référencent (via l'index cart_items_by_product).
func DeleteProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Réponse préparée avant suppression (l'API de référence renvoie l'entité)
	p, err := fetchProduct(session, productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cartsSession, err := database.GetCartsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// =============================================
	// 1. CASCADE : LIGNES DE PANIER RÉFÉRENÇANT LE PRODUIT
	// =============================================

	iter := cartsSession.Query(`SELECT cart_id FROM cart_items_by_product WHERE product_id = ?`, productID).Iter()

	batch := cartsSession.NewBatch(gocql.LoggedBatch)
	var cartID int
	lineCount := 0
	for iter.Scan(&cartID) {
		batch.Query(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
		lineCount++
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture index paniers"})
		return
	}

	if lineCount > 0 {
		batch.Query(`DELETE FROM cart_items_by_product WHERE product_id = ?`, productID)
		if err := cartsSession.ExecuteBatch(batch); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur cascade lignes de panier"})
			return
		}
		log.Printf("🗑️ %d ligne(s) de panier supprimée(s) pour le produit %d", lineCount, productID)
	}

	// =============================================
	// 2. SUPPRESSION DU PRODUIT
	// =============================================

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	cache.Products.InvalidateProduct(productID)
	go services.RemoveProductFromIndex(productID)

	c.JSON(http.StatusOK, p)
}
