package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Permission levels supplied by the authentication collaborator. The engine
// never inspects identity strings itself; it only compares levels.
const (
	PermissionNone      = "none"
	PermissionFinancial = "financial"
	PermissionSuper     = "super"
)

// Context keys set by ActorAuth
const (
	ContextActorID    = "actor_id"
	ContextPermission = "actor_permission"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

// getJWTSecret reads JWT_SECRET on first use, after godotenv has had a chance
// to load it; it generates a throwaway key outside production.
func getJWTSecret() []byte {
	jwtSecretOnce.Do(func() {
		jwtSecret = resolveJWTSecret()
	})
	return jwtSecret
}

func resolveJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("ENV") == "production" {
			log.Fatal("JWT_SECRET must be set in production")
		}

		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			log.Fatal("Failed to generate development JWT key:", err)
		}
		secret = base64.StdEncoding.EncodeToString(randomKey)
		log.Println("Warning: JWT_SECRET not set, using a random development key")
	}

	return []byte(secret)
}

// ActorClaims carries the acting identity and its permission level
type ActorClaims struct {
	ActorID              string `json:"actor_id"`
	Permission           string `json:"permission"`
	jwt.RegisteredClaims
}

var permissionRank = map[string]int{
	PermissionNone:      0,
	PermissionFinancial: 1,
	PermissionSuper:     2,
}

// ActorAuth resolves the acting identity for every request. Two modes:
//  1. Bearer token with ActorClaims, the normal path
//  2. X-Actor-Id / X-Actor-Permission headers, for tests and dev tooling
func ActorAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			actorID := c.GetHeader("X-Actor-Id")
			if actorID == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
				c.Abort()
				return
			}
			permission := c.GetHeader("X-Actor-Permission")
			if _, ok := permissionRank[permission]; !ok {
				permission = PermissionNone
			}
			c.Set(ContextActorID, actorID)
			c.Set(ContextPermission, permission)
			c.Next()
			return
		}

		tokenString := authHeader[7:]
		claims := &ActorClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return getJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		permission := claims.Permission
		if _, ok := permissionRank[permission]; !ok {
			permission = PermissionNone
		}
		c.Set(ContextActorID, claims.ActorID)
		c.Set(ContextPermission, permission)
		c.Next()
	}
}

// RequirePermission gates a route group on a minimum permission level
func RequirePermission(min string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permission := c.GetString(ContextPermission)
		if permissionRank[permission] < permissionRank[min] {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "insufficient permission",
				"required": min,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
