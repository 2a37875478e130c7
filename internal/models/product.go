package models

// Product reprend la forme publique de l'API de référence.
// Les champs de rating sont des pointeurs : absents en base → null en JSON.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

type Rating struct {
	Rate  *float64 `json:"rate"`
	Count *int     `json:"count"`
}
