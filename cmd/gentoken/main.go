// gentoken prints a signed development JWT compatible with the API's auth
// middleware. In production tokens come from the identity service; this tool
// exists so curl and the e2e suite have something to send.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "signing secret")
	userID := flag.String("user", uuid.NewString(), "user id claim")
	username := flag.String("username", "dev", "username claim")
	role := flag.String("role", "admin", "role claim (admin|staff)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "gentoken: -secret or JWT_SECRET required")
		os.Exit(1)
	}

	claims := middleware.JWTClaims{
		UserID:   *userID,
		Username: *username,
		Role:     *role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(*ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintln(os.Stderr, "gentoken:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
