// Package auth carries the JWT scaffolding: token issue/verify and the gin
// middleware enforcing login and per-route permissions.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Permission strings embedded in token claims. They mirror the registry's
// staff roles: who may change statuses, confirm fees and delete records.
const (
	PermChangeStatus   = "pub_change_status"
	PermConfirmFee     = "confirm_objection_fee"
	PermConfirmOutcome = "confirm_objection_status"
	PermDownload       = "download_doc"
	PermDelete         = "delete_doc"
)

// Claims is what the registry stores inside a token.
type Claims struct {
	Username    string
	Permissions []string
}

func GenerateToken(username string, permissions []string, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   username,
		"perms": permissions,
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims := &Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Username = sub
	}
	if raw, ok := mapClaims["perms"].([]interface{}); ok {
		for _, p := range raw {
			if s, ok := p.(string); ok {
				claims.Permissions = append(claims.Permissions, s)
			}
		}
	}
	return claims, nil
}

// Has reports whether the claims carry a permission.
func (c *Claims) Has(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
