package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}
