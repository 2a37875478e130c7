package product

import (
	"fmt"

	"github.com/gocql/gocql"

	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/fieldmask"
	"fakestore_back_end/internal/models"
)

// productPayload couvre les corps de POST, PUT et PATCH ; le masque décide
// des champs réellement appliqués.
type productPayload struct {
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Rating      models.Rating `json:"rating"`
}

// mergeProduct applique les champs présents dans le masque sur le produit.
// Le rating est fusionné clé par clé, jamais remplacé en bloc.
func mergeProduct(p *models.Product, payload productPayload, mask fieldmask.Mask) error {
	if mask.Has("title") {
		p.Title = payload.Title
	}
	if mask.Has("price") {
		if payload.Price < 0 {
			return fmt.Errorf("le prix ne peut pas être négatif")
		}
		p.Price = payload.Price
	}
	if mask.Has("description") {
		p.Description = payload.Description
	}
	if mask.Has("category") {
		p.Category = payload.Category
	}
	if mask.Has("image") {
		p.Image = payload.Image
	}

	if mask.Has("rating") {
		sub := mask.Sub("rating")
		if sub.Has("rate") {
			p.Rating.Rate = payload.Rating.Rate
		}
		if sub.Has("count") {
			p.Rating.Count = payload.Rating.Count
		}
	}

	return nil
}

// fetchProduct lit un produit par id externe. Retourne gocql.ErrNotFound si absent.
func fetchProduct(session *gocql.Session, productID int) (*models.Product, error) {
	p := models.Product{ID: productID}

	err := session.Query(database.StmtProductByID, productID).
		Scan(&p.Title, &p.Price, &p.Description, &p.Category, &p.Image, &p.Rating.Rate, &p.Rating.Count)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// saveProduct écrit la ligne complète (INSERT = upsert en CQL).
func saveProduct(session *gocql.Session, p *models.Product) error {
	return session.Query(`INSERT INTO products (product_id, title, price, description, category, image, rating_rate, rating_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Price, p.Description, p.Category, p.Image, p.Rating.Rate, p.Rating.Count).Exec()
}
