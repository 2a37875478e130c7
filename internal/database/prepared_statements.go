package database

import (
	"log"
	"sync"
)

// Textes des requêtes chaudes, partagés avec les handlers. gocql prépare et
// met en cache par texte de requête : une exécution au démarrage suffit pour
// que toutes les suivantes réutilisent la préparation.
const (
	// Résolution user_id via les tables d'index d'unicité
	StmtUserIDByUsername = `SELECT user_id FROM users_by_username WHERE username = ?`
	StmtUserIDByEmail    = `SELECT user_id FROM users_by_email WHERE email = ?`

	StmtUserByID = `SELECT email, username, password, firstname, lastname, phone FROM users WHERE user_id = ?`

	StmtProductByID = `SELECT title, price, description, category, image, rating_rate, rating_count FROM products WHERE product_id = ?`
)

var preparedOnce sync.Once

// InitPreparedStatements exécute chaque requête chaude une fois, avec des
// valeurs neutres, pour payer le coût de préparation au démarrage plutôt
// qu'à la première requête servie.
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		users, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible de préparer les requêtes (users): %v", err)
			return
		}
		users.Query(StmtUserIDByUsername, "").Exec()
		users.Query(StmtUserIDByEmail, "").Exec()
		users.Query(StmtUserByID, 0).Exec()

		catalog, err := GetCatalogSession()
		if err != nil {
			log.Printf("⚠️ Impossible de préparer les requêtes (catalog): %v", err)
			return
		}
		catalog.Query(StmtProductByID, 0).Exec()

		log.Println("✅ Requêtes chaudes préparées")
	})
}
