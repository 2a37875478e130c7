package models

import "time"

type Cart struct {
	ID       int        `json:"id"`
	UserID   int        `json:"userId"`
	Date     *time.Time `json:"date"`
	Products []CartItem `json:"products"`
}

// Une ligne au plus par (panier, produit).
type CartItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}
