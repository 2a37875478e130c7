package cache

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	ctx         = context.Background()
)

// InitRedis initialise la connexion Redis
func InitRedis() error {
	redisHost := os.Getenv("REDIS_HOST")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	if redisHost == "" {
		return fmt.Errorf("REDIS_HOST non configuré")
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         redisHost,
		Password:     redisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test de connexion
	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("impossible de se connecter à Redis: %v", err)
	}

	log.Println("✅ Redis connecté avec succès")
	return nil
}

// CloseRedis ferme la connexion Redis
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// --- Refresh Tokens ---
//
// Chaque refresh token émis est inscrit sous refresh:<userID>:<jti> pour la
// durée de vie du token. La révocation supprime la clé ; un token absent de
// la liste est considéré invalidé.

// StoreRefreshToken inscrit un refresh token émis pour un utilisateur
func StoreRefreshToken(userID int, tokenID string, duration time.Duration) error {
	key := fmt.Sprintf("refresh:%d:%s", userID, tokenID)
	return RedisClient.Set(ctx, key, "valid", duration).Err()
}

// IsRefreshTokenActive vérifie qu'un refresh token n'a pas été révoqué
func IsRefreshTokenActive(userID int, tokenID string) bool {
	key := fmt.Sprintf("refresh:%d:%s", userID, tokenID)
	exists, err := RedisClient.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️ Erreur vérification refresh token: %v", err)
		return false
	}
	return exists > 0
}

// DeleteRefreshToken révoque un refresh token précis (logout).
// Retourne redis.Nil si le token était déjà révoqué.
func DeleteRefreshToken(userID int, tokenID string) error {
	key := fmt.Sprintf("refresh:%d:%s", userID, tokenID)
	deleted, err := RedisClient.Del(ctx, key).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return redis.Nil
	}
	return nil
}

// DeleteAllRefreshTokens révoque tous les refresh tokens d'un utilisateur
// (logout all devices). Idempotent : aucune clé à supprimer n'est pas une erreur.
func DeleteAllRefreshTokens(userID int) error {
	pattern := fmt.Sprintf("refresh:%d:*", userID)
	keys, err := RedisClient.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return RedisClient.Del(ctx, keys...).Err()
	}

	return nil
}

// --- Blacklist JWT (révocation avant expiration) ---

// BlacklistToken ajoute un access token (par jti) à la blacklist
func BlacklistToken(tokenID string, duration time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", tokenID)
	return RedisClient.Set(ctx, key, "revoked", duration).Err()
}

// IsTokenBlacklisted vérifie si un token est blacklisté
func IsTokenBlacklisted(tokenID string) bool {
	key := fmt.Sprintf("blacklist:%s", tokenID)
	exists, err := RedisClient.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️ Erreur vérification blacklist: %v", err)
		return false
	}
	return exists > 0
}

// --- Cache générique ---

// SetCache stocke une valeur dans le cache
func SetCache(key string, value interface{}, duration time.Duration) error {
	return RedisClient.Set(ctx, key, value, duration).Err()
}

// GetCache récupère une valeur du cache
func GetCache(key string) (string, error) {
	return RedisClient.Get(ctx, key).Result()
}

// DeleteCache supprime une clé du cache
func DeleteCache(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return RedisClient.Del(ctx, keys...).Err()
}
