package cache

import (
	"fmt"
	"log"
)

// Invalidator est le hook d'invalidation appelé de façon synchrone après
// chaque écriture réussie sur le catalogue. Les handlers ne touchent jamais
// Redis directement pour l'invalidation : ils passent par cette interface.
type Invalidator interface {
	InvalidateProduct(productID int)
}

// redisInvalidator supprime la fiche produit et la liste complète.
type redisInvalidator struct{}

func (redisInvalidator) InvalidateProduct(productID int) {
	keys := []string{fmt.Sprintf("product:%d", productID), "products:all"}
	if err := DeleteCache(keys...); err != nil {
		log.Printf("⚠️ Erreur invalidation cache produit %d: %v", productID, err)
	}
}

// Products est l'invalidateur branché sur le chemin d'écriture du catalogue.
var Products Invalidator = redisInvalidator{}
