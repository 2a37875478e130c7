package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Access court, refresh long ; le refresh est révocable côté Redis.
	AccessTokenLifetime  = 15 * time.Minute
	RefreshTokenLifetime = 30 * 24 * time.Hour
)

type AccessClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID int    `json:"user_id"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateAccessToken émet un access token signé HS256 avec un jti unique
// (le jti sert de clé de blacklist à la déconnexion).
func GenerateAccessToken(userID int, username string) (string, string, error) {
	tokenID := uuid.NewString()

	claims := AccessClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	return signed, tokenID, err
}

// GenerateRefreshToken émet un refresh token signé portant le sujet et un jti,
// à inscrire dans la liste blanche Redis pour la durée de vie du token.
func GenerateRefreshToken(userID int) (string, string, error) {
	tokenID := uuid.NewString()

	claims := RefreshClaims{
		UserID: userID,
		Type:   "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(RefreshTokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	return signed, tokenID, err
}

func keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
	}
	return jwtSecret(), nil
}

// ParseAccessToken vérifie signature et expiration (jwt/v5 valide exp).
func ParseAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("token invalide")
	}
	return claims, nil
}

// ParseRefreshToken vérifie signature, expiration et que le token est bien
// de type refresh (un access token ne doit pas passer ici).
func ParseRefreshToken(tokenString string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid || claims.Type != "refresh" {
		return nil, errors.New("refresh token invalide")
	}
	return claims, nil
}

// Plancher du TTL blacklist : un TTL nul ou négatif passé à Redis rendrait
// la clé permanente.
const blacklistTTLFloor = time.Minute

// GetTokenExpirationDuration retourne la durée de vie restante d'un access
// token (TTL de l'entrée blacklist à la déconnexion), jamais moins que le
// plancher.
func GetTokenExpirationDuration(claims *AccessClaims) time.Duration {
	if claims.ExpiresAt == nil {
		return AccessTokenLifetime
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < blacklistTTLFloor {
		return blacklistTTLFloor
	}
	return remaining
}
