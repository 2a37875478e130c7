package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fakestore_back_end/internal/handlers/cart"
	"fakestore_back_end/internal/handlers/product"
	"fakestore_back_end/internal/handlers/user"
	"fakestore_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	// Produits
	r.GET("/products", product.GetAllProducts)
	r.GET("/products/search", product.SearchProducts)
	r.GET("/products/:id", product.GetProduct)
	r.POST("/products", product.CreateProduct)
	r.PUT("/products/:id", product.UpdateProduct)
	r.PATCH("/products/:id", product.UpdateProduct)
	r.DELETE("/products/:id", product.DeleteProduct)
	r.POST("/products/:id/image", middleware.AuthRequired(), product.UploadProductImage)

	// Utilisateurs
	r.GET("/users", user.GetAllUsers)
	r.GET("/users/:id", user.GetUser)
	r.POST("/users", user.CreateUser)
	r.PUT("/users/:id", user.UpdateUser)
	r.PATCH("/users/:id", user.UpdateUser)
	r.DELETE("/users/:id", user.DeleteUser)

	// Paniers
	r.GET("/carts", cart.GetAllCarts)
	r.GET("/carts/:id", cart.GetCart)
	r.GET("/carts/user/:userId", cart.GetUserCarts)
	r.POST("/carts", cart.CreateCart)
	r.PUT("/carts/:id", cart.UpdateCart)
	r.PATCH("/carts/:id", cart.PatchCart)
	r.DELETE("/carts/:id", cart.DeleteCart)

	// Authentification
	r.POST("/auth/login", user.Login)
	r.POST("/auth/refresh", user.RefreshAccessToken)
	r.POST("/auth/logout", middleware.AuthRequired(), user.Logout)
	r.POST("/auth/logout_all", middleware.AuthRequired(), user.LogoutAll)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
