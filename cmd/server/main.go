package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fakestore_back_end/internal/cache"
	"fakestore_back_end/internal/config"
	"fakestore_back_end/internal/database"
	"fakestore_back_end/internal/idalloc"
	"fakestore_back_end/internal/routes"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	// ✅ Initialiser les prepared statements pour améliorer les performances
	database.InitPreparedStatements()

	if err := cache.InitRedis(); err != nil {
		log.Fatalf("❌ Impossible d'initialiser Redis: %v", err)
	}

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	idalloc.Init()

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur FakeStore lancé sur le port", port)
	r.Run(":" + port)
}

// warmupRedisCache pré-chauffe le cache Redis pour éviter la latence du premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
