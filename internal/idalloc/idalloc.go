// Package idalloc attribue les identifiants externes (ids publics) des
// produits, utilisateurs et paniers. La stratégie est interchangeable sans
// toucher aux points d'appel : « scanmax » reproduit le comportement de
// référence (max existant + 1, non atomique), « counter » s'appuie sur une
// séquence LWT en base et tient sous créations concurrentes.
package idalloc

import (
	"fmt"
	"log"
	"os"

	"github.com/gocql/gocql"

	"fakestore_back_end/internal/database"
)

const (
	EntityProduct = "product"
	EntityUser    = "user"
	EntityCart    = "cart"
)

type Allocator interface {
	NextID(entity string) (int, error)
}

// Default est l'allocateur branché au démarrage (voir Init).
var Default Allocator

// Init choisit la stratégie selon ID_ALLOCATOR (scanmax par défaut).
func Init() {
	if os.Getenv("ID_ALLOCATOR") == "counter" {
		Default = &CounterAllocator{IDs: scanEntityIDs}
		log.Println("✅ Allocateur d'IDs: séquence LWT")
		return
	}
	Default = &ScanMaxAllocator{IDs: scanEntityIDs}
	log.Println("✅ Allocateur d'IDs: scan max+1")
}

// Next délègue à l'allocateur courant.
func Next(entity string) (int, error) {
	if Default == nil {
		return 0, fmt.Errorf("allocateur d'IDs non initialisé")
	}
	return Default.NextID(entity)
}

// =============================================
// STRATÉGIE SCAN MAX+1 (comportement de référence)
// =============================================

// ScanMaxAllocator parcourt les ids existants et retourne max+1 (1 si vide).
// Course possible entre créateurs concurrents du même type d'entité :
// acceptable seulement avec au plus un créateur à la fois.
type ScanMaxAllocator struct {
	// IDs liste les ids externes existants pour un type d'entité.
	IDs func(entity string) ([]int, error)
}

func (a *ScanMaxAllocator) NextID(entity string) (int, error) {
	ids, err := a.IDs(entity)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

func scanEntityIDs(entity string) ([]int, error) {
	session, table, column, err := entityTable(entity)
	if err != nil {
		return nil, err
	}

	iter := session.Query("SELECT " + column + " FROM " + table).Iter()
	var ids []int
	var id int
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("erreur scan des ids %s: %v", entity, err)
	}
	return ids, nil
}

func entityTable(entity string) (*gocql.Session, string, string, error) {
	switch entity {
	case EntityProduct:
		session, err := database.GetCatalogSession()
		return session, "products", "product_id", err
	case EntityUser:
		session, err := database.GetUsersSession()
		return session, "users", "user_id", err
	case EntityCart:
		session, err := database.GetCartsSession()
		return session, "carts", "cart_id", err
	default:
		return nil, "", "", fmt.Errorf("type d'entité inconnu: %s", entity)
	}
}

// =============================================
// STRATÉGIE SÉQUENCE LWT
// =============================================

// CounterAllocator réserve les ids dans catalog.id_counters via des écritures
// conditionnelles. Atomique, au prix d'un aller-retour LWT par création.
type CounterAllocator struct {
	// IDs liste les ids externes déjà en table, pour amorcer la séquence
	// au-dessus du max courant (tables peuplées par le seed avant que la
	// séquence n'existe).
	IDs func(entity string) ([]int, error)
}

const counterRetries = 10

// firstAllocation calcule la première allocation d'une séquence à partir des
// ids déjà en table : max existant + 1, et la valeur suivante à inscrire.
func firstAllocation(ids []int) (first, next int) {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1, max + 2
}

func (a *CounterAllocator) NextID(entity string) (int, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return 0, err
	}

	for attempt := 0; attempt < counterRetries; attempt++ {
		var current int
		err := session.Query("SELECT next FROM id_counters WHERE entity = ?", entity).Scan(&current)
		if err == gocql.ErrNotFound {
			// Première allocation pour ce type d'entité : la séquence
			// démarre au-dessus des ids existants
			ids, err := a.IDs(entity)
			if err != nil {
				return 0, err
			}
			first, next := firstAllocation(ids)
			applied, err := session.Query(
				"INSERT INTO id_counters (entity, next) VALUES (?, ?) IF NOT EXISTS",
				entity, next).ScanCAS()
			if err != nil {
				return 0, err
			}
			if applied {
				return first, nil
			}
			continue // un concurrent a initialisé la séquence, on relit
		}
		if err != nil {
			return 0, err
		}

		applied, err := session.Query(
			"UPDATE id_counters SET next = ? WHERE entity = ? IF next = ?",
			current+1, entity, current).ScanCAS()
		if err != nil {
			return 0, err
		}
		if applied {
			return current, nil
		}
	}

	return 0, fmt.Errorf("échec allocation id %s après %d tentatives", entity, counterRetries)
}
