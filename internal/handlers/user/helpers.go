package user

import (
	"github.com/gocql/gocql"

	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/fieldmask"
	"fakestore_back_end/internal/models"
)

// userPayload couvre les corps de POST, PUT et PATCH ; le masque décide
// des champs réellement appliqués.
type userPayload struct {
	Email    string         `json:"email"`
	Username string         `json:"username"`
	Password string         `json:"password"`
	Name     models.Name    `json:"name"`
	Address  addressPayload `json:"address"`
	Phone    string         `json:"phone"`
}

type addressPayload struct {
	City        string             `json:"city"`
	Street      string             `json:"street"`
	Number      int                `json:"number"`
	Zipcode     string             `json:"zipcode"`
	Geolocation models.Geolocation `json:"geolocation"`
}

// mergeUser applique les champs présents dans le masque. Les objets imbriqués
// (name, address, geolocation) sont fusionnés clé par clé. Le hash du mot de
// passe reste à la charge du handler : le retour indique si le payload en
// portait un nouveau.
func mergeUser(u *models.User, payload userPayload, mask fieldmask.Mask) (passwordChanged bool) {
	if mask.Has("email") {
		u.Email = payload.Email
	}
	if mask.Has("username") {
		u.Username = payload.Username
	}
	if mask.Has("password") {
		passwordChanged = true
	}
	if mask.Has("phone") {
		u.Phone = payload.Phone
	}

	if mask.Has("name") {
		sub := mask.Sub("name")
		if sub.Has("firstname") {
			u.Name.Firstname = payload.Name.Firstname
		}
		if sub.Has("lastname") {
			u.Name.Lastname = payload.Name.Lastname
		}
	}

	if mask.Has("address") {
		// Un utilisateur sans adresse en reçoit une si le payload en parle
		if u.Address == nil {
			u.Address = &models.Address{}
		}
		sub := mask.Sub("address")
		if sub.Has("city") {
			u.Address.City = payload.Address.City
		}
		if sub.Has("street") {
			u.Address.Street = payload.Address.Street
		}
		if sub.Has("number") {
			u.Address.Number = payload.Address.Number
		}
		if sub.Has("zipcode") {
			u.Address.Zipcode = payload.Address.Zipcode
		}
		if sub.Has("geolocation") {
			geo := sub.Sub("geolocation")
			if geo.Has("lat") {
				u.Address.Geolocation.Lat = payload.Address.Geolocation.Lat
			}
			if geo.Has("long") {
				u.Address.Geolocation.Long = payload.Address.Geolocation.Long
			}
		}
	}

	return passwordChanged
}

// fetchUser lit l'utilisateur et son adresse éventuelle.
func fetchUser(session *gocql.Session, userID int) (*models.User, error) {
	u := models.User{ID: userID}

	err := session.Query(database.StmtUserByID, userID).
		Scan(&u.Email, &u.Username, &u.Password, &u.Name.Firstname, &u.Name.Lastname, &u.Phone)
	if err != nil {
		return nil, err
	}

	var addr models.Address
	err = session.Query(`SELECT city, street, number, zipcode, geo_lat, geo_long
		FROM addresses WHERE user_id = ?`, userID).
		Scan(&addr.City, &addr.Street, &addr.Number, &addr.Zipcode, &addr.Geolocation.Lat, &addr.Geolocation.Long)
	if err == nil {
		u.Address = &addr
	} else if err != gocql.ErrNotFound {
		return nil, err
	}

	return &u, nil
}

// saveUser écrit la ligne utilisateur et son adresse (INSERT = upsert en CQL).
func saveUser(session *gocql.Session, u *models.User) error {
	err := session.Query(`INSERT INTO users (user_id, email, username, password, firstname, lastname, phone)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, u.Password, u.Name.Firstname, u.Name.Lastname, u.Phone).Exec()
	if err != nil {
		return err
	}

	if u.Address != nil {
		return session.Query(`INSERT INTO addresses (user_id, city, street, number, zipcode, geo_lat, geo_long)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Address.City, u.Address.Street, u.Address.Number, u.Address.Zipcode,
			u.Address.Geolocation.Lat, u.Address.Geolocation.Long).Exec()
	}
	return nil
}

// usernameTaken vérifie la table d'index d'unicité. Retourne l'id du titulaire.
func usernameTaken(session *gocql.Session, username string) (int, bool, error) {
	var ownerID int
	err := session.Query(database.StmtUserIDByUsername, username).Scan(&ownerID)
	if err == gocql.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return ownerID, true, nil
}

func emailTaken(session *gocql.Session, email string) (int, bool, error) {
	var ownerID int
	err := session.Query(database.StmtUserIDByEmail, email).Scan(&ownerID)
	if err == gocql.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return ownerID, true, nil
}
