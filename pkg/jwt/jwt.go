package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity son los claims que el proveedor de identidad externo incluye en cada token.
// El servicio solo los lee: nunca emite credenciales en producción.
type Identity struct {
	UserID          string
	Role            string // "admin" | "bodeguero" | "vendedor"
	HomeWarehouseID string // almacén base del usuario; vacío para roles corporativos
}

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	UserID          string `json:"user_id"`
	Role            string `json:"role"`
	HomeWarehouseID string `json:"home_warehouse_id,omitempty"`
}

// Generate genera un token HS256 con la identidad indicada.
// Lo usa el proveedor de identidad; aquí se conserva para tests e integración local.
func Generate(secret string, id Identity, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:          id.UserID,
		Role:            id.Role,
		HomeWarehouseID: id.HomeWarehouseID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad del llamador.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	return Identity{
		UserID:          claims.UserID,
		Role:            claims.Role,
		HomeWarehouseID: claims.HomeWarehouseID,
	}, nil
}
