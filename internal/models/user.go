package models

// User : le hash du mot de passe n'est jamais sérialisé.
type User struct {
	ID       int      `json:"id"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Password string   `json:"-"`
	Name     Name     `json:"name"`
	Address  *Address `json:"address"`
	Phone    string   `json:"phone"`
}

type Name struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Address appartient à un seul utilisateur et est supprimée avec lui.
type Address struct {
	City        string      `json:"city"`
	Street      string      `json:"street"`
	Number      int         `json:"number"`
	Zipcode     string      `json:"zipcode"`
	Geolocation Geolocation `json:"geolocation"`
}

// Lat/Long optionnels dans l'API de référence → null en JSON quand absents.
type Geolocation struct {
	Lat  *string `json:"lat"`
	Long *string `json:"long"`
}
