// Commande de seed : importe produits, utilisateurs et paniers depuis
// l'API de référence, puis indexe le catalogue dans Elasticsearch.
// Les tables sont vidées avant import : à réserver aux environnements
// de dev et de démo.
package main

import (
	"context"
	"log"

	"github.com/gocql/gocql"

	"fakestore_back_end/internal/config"
	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/models"
	"fakestore_back_end/internal/services"
	"fakestore_back_end/internal/utils"
)

func main() {
	config.Load()
	database.ConnectDatabases()

	ctx := context.Background()
	client := services.NewReferenceClient()

	truncateAll()

	products := seedProducts(ctx, client)
	seedUsers(ctx, client)
	seedCarts(ctx, client)

	for _, p := range products {
		services.IndexProduct(p)
	}

	log.Println("✅ Seed terminé")
}

func truncateAll() {
	catalog := mustSession(database.GetCatalogSession())
	users := mustSession(database.GetUsersSession())
	carts := mustSession(database.GetCartsSession())

	for _, q := range []struct {
		session *gocql.Session
		table   string
	}{
		{catalog, "products"},
		{users, "users"},
		{users, "addresses"},
		{users, "users_by_username"},
		{users, "users_by_email"},
		{carts, "carts"},
		{carts, "carts_by_user"},
		{carts, "cart_items"},
		{carts, "cart_items_by_product"},
	} {
		if err := q.session.Query("TRUNCATE " + q.table).Exec(); err != nil {
			log.Fatalf("❌ Erreur TRUNCATE %s: %v", q.table, err)
		}
	}
	log.Println("🗑️ Tables vidées")
}

func seedProducts(ctx context.Context, client *services.ReferenceClient) []models.Product {
	products, err := client.FetchProducts(ctx)
	if err != nil {
		log.Fatalf("❌ Erreur récupération produits: %v", err)
	}

	session := mustSession(database.GetCatalogSession())
	for _, p := range products {
		if err := session.Query(`INSERT INTO products
			(product_id, title, price, description, category, image, rating_rate, rating_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Price, p.Description, p.Category, p.Image,
			p.Rating.Rate, p.Rating.Count).Exec(); err != nil {
			log.Fatalf("❌ Erreur insertion produit %d: %v", p.ID, err)
		}
	}

	log.Printf("✅ %d produits importés", len(products))
	return products
}

func seedUsers(ctx context.Context, client *services.ReferenceClient) {
	users, err := client.FetchUsers(ctx)
	if err != nil {
		log.Fatalf("❌ Erreur récupération utilisateurs: %v", err)
	}

	session := mustSession(database.GetUsersSession())
	for _, u := range users {
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			log.Fatalf("❌ Erreur hash mot de passe (%s): %v", u.Username, err)
		}

		batch := session.NewBatch(gocql.LoggedBatch)
		batch.Query(`INSERT INTO users (user_id, email, username, password, firstname, lastname, phone)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Email, u.Username, hashed, u.Name.Firstname, u.Name.Lastname, u.Phone)
		batch.Query(`INSERT INTO users_by_username (username, user_id) VALUES (?, ?)`, u.Username, u.ID)
		batch.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`, u.Email, u.ID)
		if u.Address != nil {
			batch.Query(`INSERT INTO addresses (user_id, city, street, number, zipcode, geo_lat, geo_long)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				u.ID, u.Address.City, u.Address.Street, u.Address.Number, u.Address.Zipcode,
				u.Address.Geolocation.Lat, u.Address.Geolocation.Long)
		}
		if err := session.ExecuteBatch(batch); err != nil {
			log.Fatalf("❌ Erreur insertion utilisateur %d: %v", u.ID, err)
		}
	}

	log.Printf("✅ %d utilisateurs importés", len(users))
}

func seedCarts(ctx context.Context, client *services.ReferenceClient) {
	carts, err := client.FetchCarts(ctx)
	if err != nil {
		log.Fatalf("❌ Erreur récupération paniers: %v", err)
	}

	session := mustSession(database.GetCartsSession())
	for _, c := range carts {
		batch := session.NewBatch(gocql.LoggedBatch)
		batch.Query(`INSERT INTO carts (cart_id, user_id, date) VALUES (?, ?, ?)`, c.ID, c.UserID, c.Date)
		batch.Query(`INSERT INTO carts_by_user (user_id, cart_id) VALUES (?, ?)`, c.UserID, c.ID)
		for _, item := range c.Products {
			batch.Query(`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)`,
				c.ID, item.ProductID, item.Quantity)
			batch.Query(`INSERT INTO cart_items_by_product (product_id, cart_id) VALUES (?, ?)`,
				item.ProductID, c.ID)
		}
		if err := session.ExecuteBatch(batch); err != nil {
			log.Fatalf("❌ Erreur insertion panier %d: %v", c.ID, err)
		}
	}

	log.Printf("✅ %d paniers importés", len(carts))
}

func mustSession(session *gocql.Session, err error) *gocql.Session {
	if err != nil {
		log.Fatalf("❌ Erreur connexion base de données: %v", err)
	}
	return session
}
