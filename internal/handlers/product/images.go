package product

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fakestore_back_end/internal/cache"
	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/services"
)

// UploadProductImage stocke l'image dans MinIO et pointe la colonne image
// du produit sur l'URL obtenue.
func UploadProductImage(c *gin.Context) {
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

	p, err := fetchProduct(session, productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
		return
	}

	url, err := services.UploadProductImage(context.Background(), productID, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image: " + err.Error()})
		return
	}

	p.Image = url
	if err := saveProduct(session, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	cache.Products.InvalidateProduct(productID)
	go services.IndexProduct(*p)

	c.JSON(http.StatusOK, gin.H{"image": url})
}
