package cart

import (
	"errors"
	"sort"

	"github.com/gocql/gocql"

	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/models"
	"fakestore_back_end/internal/reconcile"
)

// fetchCart charge la ligne panier seule, sans ses produits.
func fetchCart(session *gocql.Session, cartID int) (*models.Cart, error) {
	c := &models.Cart{ID: cartID}
	if err := session.Query(`SELECT user_id, date FROM carts WHERE cart_id = ?`, cartID).
		Scan(&c.UserID, &c.Date); err != nil {
		return nil, err
	}
	return c, nil
}

// fetchItems charge les lignes d'un panier sous forme productId → quantité.
func fetchItems(session *gocql.Session, cartID int) (map[int]int, error) {
	items := make(map[int]int)
	iter := session.Query(`SELECT product_id, quantity FROM cart_items WHERE cart_id = ?`, cartID).Iter()
	var productID, quantity int
	for iter.Scan(&productID, &quantity) {
		items[productID] = quantity
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

// itemList trie les lignes par productId pour une réponse stable.
func itemList(items map[int]int) []models.CartItem {
	list := make([]models.CartItem, 0, len(items))
	for productID, quantity := range items {
		list = append(list, models.CartItem{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list
}

// itemsFromPayload normalise la liste products de POST et PUT : quantité
// absente → 1, zéro accepté, négative refusée, entrées sans productId
// ignorées. Chaque produit est résolu avant toute écriture.
func itemsFromPayload(entries []patchEntry, exists reconcile.Resolver) (map[int]int, error) {
	items := make(map[int]int, len(entries))
	for _, e := range entries {
		if e.ProductID == nil {
			continue
		}
		quantity := 1
		if e.Quantity != nil {
			quantity = *e.Quantity
		}
		if quantity < 0 {
			return nil, &reconcile.InvalidQuantityError{ProductID: *e.ProductID}
		}
		found, err := exists(*e.ProductID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &reconcile.NotFoundError{ProductID: *e.ProductID}
		}
		items[*e.ProductID] = quantity
	}
	return items, nil
}

// productExists vérifie l'existence côté catalogue, avec mémoïsation
// pour ne pas requêter deux fois le même produit dans un même patch.
func productExists() func(productID int) (bool, error) {
	seen := make(map[int]bool)
	return func(productID int) (bool, error) {
		if exists, ok := seen[productID]; ok {
			return exists, nil
		}
		session, err := database.GetCatalogSession()
		if err != nil {
			return false, err
		}
		var id int
		err = session.Query(`SELECT product_id FROM products WHERE product_id = ?`, productID).Scan(&id)
		if errors.Is(err, gocql.ErrNotFound) {
			seen[productID] = false
			return false, nil
		}
		if err != nil {
			return false, err
		}
		seen[productID] = true
		return true, nil
	}
}

// userExists vérifie que le propriétaire du panier existe.
func userExists(userID int) (bool, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return false, err
	}
	var id int
	err = session.Query(`SELECT user_id FROM users WHERE user_id = ?`, userID).Scan(&id)
	if errors.Is(err, gocql.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// saveItems écrit l'état complet d'un panier neuf dans un batch loggé :
// ligne panier, index propriétaire, lignes produits et index inverse.
func saveItems(session *gocql.Session, c *models.Cart, items map[int]int) error {
	batch := session.NewBatch(gocql.LoggedBatch)
	batch.Query(`INSERT INTO carts (cart_id, user_id, date) VALUES (?, ?, ?)`, c.ID, c.UserID, c.Date)
	batch.Query(`INSERT INTO carts_by_user (user_id, cart_id) VALUES (?, ?)`, c.UserID, c.ID)
	for productID, quantity := range items {
		batch.Query(`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)`,
			c.ID, productID, quantity)
		batch.Query(`INSERT INTO cart_items_by_product (product_id, cart_id) VALUES (?, ?)`,
			productID, c.ID)
	}
	return session.ExecuteBatch(batch)
}
