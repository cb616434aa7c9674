package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload. The email is the only application claim; iat
// and exp come from the embedded registered claims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
