package product

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fakestore_back_end/internal/cache"
	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/idalloc"
	"fakestore_back_end/internal/models"
	"fakestore_back_end/internal/services"
)

func GetAllProducts(c *gin.Context) {
	cacheKey := "products:all"

	// ✅ Vérifie le cache Redis
	if val, err := cache.GetCache(cacheKey); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, title, price, description, category, image, rating_rate, rating_count
		FROM products`).Iter()

	products := []models.Product{}
	var p models.Product

	for iter.Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.Category, &p.Image, &p.Rating.Rate, &p.Rating.Count) {
		products = append(products, p)
		p = models.Product{} // Reset pour la prochaine itération
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	// ✅ Met en cache
	if data, err := json.Marshal(products); err == nil {
		cache.SetCache(cacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, products)
}

func GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	cacheKey := fmt.Sprintf("product:%d", productID)
	if val, err := cache.GetCache(cacheKey); err == nil && val != "" {
		var cached models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
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

	if data, err := json.Marshal(p); err == nil {
		cache.SetCache(cacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, p)
}

func CreateProduct(c *gin.Context) {
	var input productPayload
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix ne peut pas être négatif"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ID externe = max existant + 1 (stratégie interchangeable, voir idalloc)
	newID, err := idalloc.Next(idalloc.EntityProduct)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur allocation ID produit"})
		return
	}

	p := models.Product{
		ID:          newID,
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		Category:    input.Category,
		Image:       input.Image,
		Rating:      input.Rating,
	}

	if err := saveProduct(session, &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	// Invalidation synchrone après écriture réussie
	cache.Products.InvalidateProduct(p.ID)

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)

	c.JSON(http.StatusCreated, p)
}

func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 🔎 1️⃣ Recherche dans Elasticsearch (prioritaire)
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	// 🔁 2️⃣ Fallback ScyllaDB si ES vide (scan complet - non optimal pour production)
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, title, price, description, category, image, rating_rate, rating_count
		FROM products`).Iter()

	needle := strings.ToLower(query)
	matches := []models.Product{}
	var p models.Product

	for iter.Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.Category, &p.Image, &p.Rating.Rate, &p.Rating.Count) {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			matches = append(matches, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, matches)
}
