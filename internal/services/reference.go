package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"fakestore_back_end/internal/models"
)

// ReferenceClient interroge l'API catalogue de référence (seed uniquement,
// jamais sur le chemin des requêtes).
type ReferenceClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewReferenceClient() *ReferenceClient {
	base := os.Getenv("REFERENCE_API_URL")
	if base == "" {
		base = "https://fakestoreapi.com"
	}
	return &ReferenceClient{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ReferenceUser expose le mot de passe en clair que l'API de référence
// renvoie ; il est hashé avant insertion par le seed.
type ReferenceUser struct {
	models.User
	Password string `json:"password"`
}

func (c *ReferenceClient) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *ReferenceClient) FetchUsers(ctx context.Context) ([]ReferenceUser, error) {
	var users []ReferenceUser
	if err := c.getJSON(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *ReferenceClient) FetchCarts(ctx context.Context) ([]models.Cart, error) {
	var carts []models.Cart
	if err := c.getJSON(ctx, "/carts", &carts); err != nil {
		return nil, err
	}
	return carts, nil
}

func (c *ReferenceClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("erreur appel API de référence %s: %v", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("API de référence %s: statut %d", path, res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
