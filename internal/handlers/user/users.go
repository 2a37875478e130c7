package user

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/idalloc"
	"fakestore_back_end/internal/models"
	"fakestore_back_end/internal/utils"
)

func GetAllUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT user_id, email, username, firstname, lastname, phone FROM users`).Iter()

	users := []models.User{}
	var u models.User
	for iter.Scan(&u.ID, &u.Email, &u.Username, &u.Name.Firstname, &u.Name.Lastname, &u.Phone) {
		users = append(users, u)
		u = models.User{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateurs"})
		return
	}

	// Adresses rattachées (une par utilisateur au plus)
	for i := range users {
		var addr models.Address
		err := session.Query(`SELECT city, street, number, zipcode, geo_lat, geo_long
			FROM addresses WHERE user_id = ?`, users[i].ID).
			Scan(&addr.City, &addr.Street, &addr.Number, &addr.Zipcode, &addr.Geolocation.Lat, &addr.Geolocation.Long)
		if err == nil {
			a := addr
			users[i].Address = &a
		}
	}

	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	u, err := fetchUser(session, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, u)
}

func CreateUser(c *gin.Context) {
	var input userPayload
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Unicité username / email via les tables d'index
	if _, taken, err := usernameTaken(session, input.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification unicité"})
		return
	} else if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce nom d'utilisateur est déjà pris"})
		return
	}
	if _, taken, err := emailTaken(session, input.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification unicité"})
		return
	} else if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	newID, err := idalloc.Next(idalloc.EntityUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur allocation ID utilisateur"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}

	u := models.User{
		ID:       newID,
		Email:    input.Email,
		Username: input.Username,
		Password: hashedPassword,
		Name:     input.Name,
		Phone:    input.Phone,
		Address: &models.Address{
			City:        input.Address.City,
			Street:      input.Address.Street,
			Number:      input.Address.Number,
			Zipcode:     input.Address.Zipcode,
			Geolocation: input.Address.Geolocation,
		},
	}

	if err := saveUser(session, &u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	// Tables d'index d'unicité
	batch := session.NewBatch(gocql.LoggedBatch)
	batch.Query(`INSERT INTO users_by_username (username, user_id) VALUES (?, ?)`, u.Username, u.ID)
	batch.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`, u.Email, u.ID)
	if err := session.ExecuteBatch(batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	// 📤 Mail de bienvenue en best-effort
	go func(email, username string) {
		if err := utils.SendWelcomeEmail(email, username); err != nil {
			log.Printf("⚠️ Échec mail de bienvenue pour %s: %v", email, err)
		}
	}(u.Email, u.Username)

	c.JSON(http.StatusCreated, u)
}
