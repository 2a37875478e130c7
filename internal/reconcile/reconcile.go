// Package reconcile calcule le nouvel ensemble de lignes d'un panier à partir
// d'un patch add/update/remove. Le moteur est pur : il travaille sur une copie
// de l'état courant et ne touche jamais la base — le handler ne persiste que
// si l'application complète du patch a réussi (aucune écriture partielle).
package reconcile

import (
	"errors"
	"fmt"
)

// Resolver confirme l'existence d'un produit référencé par le patch.
type Resolver func(productID int) (bool, error)

// Entry est une opération add : la quantité s'ajoute à la ligne existante.
type Entry struct {
	ProductID int
	Quantity  int
}

// UpdateEntry est une opération update : quantité absolue, obligatoire et ≥ 0.
// Le pointeur distingue « absente » de « zéro ».
type UpdateEntry struct {
	ProductID int
	Quantity  *int
}

// Patch porte les trois listes d'opérations, appliquées dans cet ordre fixe :
// add, puis update, puis remove.
type Patch struct {
	Add    []Entry
	Update []UpdateEntry
	Remove []int
}

// NotFoundError : un produit référencé par add ou update n'existe pas.
type NotFoundError struct {
	ProductID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("produit %d introuvable", e.ProductID)
}

// InvalidQuantityError : quantité absente ou négative sur une opération update.
type InvalidQuantityError struct {
	ProductID int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantité invalide pour le produit %d", e.ProductID)
}

// Apply retourne l'ensemble final produit → quantité après application du
// patch sur l'état courant. Toute erreur de résolution abandonne l'ensemble
// du patch.
//
// Sémantique conservée de l'API de référence :
//   - add sur une ligne existante incrémente (pas de contrôle de signe) ;
//   - update pose une quantité absolue, avec upsert si la ligne n'existe pas ;
//   - remove ignore silencieusement les produits absents du panier ;
//   - les listes ne sont pas dédupliquées entre elles : add puis remove du
//     même produit dans le même patch aboutit à la suppression.
func Apply(current map[int]int, patch Patch, exists Resolver) (map[int]int, error) {
	items := make(map[int]int, len(current))
	for pid, qty := range current {
		items[pid] = qty
	}

	// 1. Add : incrément ou création
	for _, op := range patch.Add {
		if err := resolve(op.ProductID, exists); err != nil {
			return nil, err
		}
		items[op.ProductID] += op.Quantity
	}

	// 2. Update : quantité absolue (la validation précède la résolution,
	// comme dans l'API de référence)
	for _, op := range patch.Update {
		if op.Quantity == nil || *op.Quantity < 0 {
			return nil, &InvalidQuantityError{ProductID: op.ProductID}
		}
		if err := resolve(op.ProductID, exists); err != nil {
			return nil, err
		}
		items[op.ProductID] = *op.Quantity
	}

	// 3. Remove : no-op sur les produits absents
	for _, pid := range patch.Remove {
		delete(items, pid)
	}

	return items, nil
}

func resolve(productID int, exists Resolver) error {
	ok, err := exists(productID)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{ProductID: productID}
	}
	return nil
}

// Changes est le diff entre l'état courant et l'état final, prêt à être
// traduit en mutations (upserts + deletes) dans un batch.
type Changes struct {
	Upserts map[int]int
	Deletes []int
}

// Diff calcule les mutations à persister pour passer de before à after.
func Diff(before, after map[int]int) Changes {
	changes := Changes{Upserts: make(map[int]int)}

	for pid, qty := range after {
		if prev, ok := before[pid]; !ok || prev != qty {
			changes.Upserts[pid] = qty
		}
	}
	for pid := range before {
		if _, ok := after[pid]; !ok {
			changes.Deletes = append(changes.Deletes, pid)
		}
	}

	return changes
}

// IsNotFound et IsInvalidQuantity évitent aux handlers de manipuler les types
// d'erreur directement.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidQuantity(err error) bool {
	var target *InvalidQuantityError
	return errors.As(err, &target)
}
