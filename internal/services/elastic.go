package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/models"
)

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexProduct indexe un produit dans Elasticsearch (appelé en goroutine
// après chaque écriture catalogue réussie).
func IndexProduct(p models.Product) {
	if database.Elastic == nil {
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      "products",
		DocumentID: strconv.Itoa(p.ID),
		Body:       bytes.NewReader(data),
		Refresh:    "true", // rend la donnée immédiatement visible
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour le produit %d: %s", p.ID, res.String())
	}
}

// RemoveProductFromIndex retire un produit supprimé de l'index.
func RemoveProductFromIndex(productID int) {
	if database.Elastic == nil {
		return
	}

	res, err := database.Elastic.Delete("products", strconv.Itoa(productID))
	if err != nil {
		log.Printf("⚠️ Erreur désindexation produit %d: %v", productID, err)
		return
	}
	defer res.Body.Close()
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

// SearchProducts cherche par titre, description ou catégorie.
func SearchProducts(query string) ([]models.Product, error) {
	if database.Elastic == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "description", "category"},
			},
		},
	}

	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{"products"},
		Body:  &buf,
	}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		json.NewDecoder(res.Body).Decode(&e)
		log.Printf("❌ Elasticsearch erreur: %+v", e)
		return nil, errors.New("index non trouvé ou vide")
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage réponse Elastic: %v", err)
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}
