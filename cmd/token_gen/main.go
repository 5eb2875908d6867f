package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/constants"

	"github.com/joho/godotenv"
)

// token_gen signs a bearer token for local testing against a running server.
func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "user id")
	role := flag.String("role", string(constants.RoleUser), "USER or ADMIN")
	community := flag.String("community", "", "community name")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *userID == "" || *community == "" {
		log.Fatal("both -user and -community are required")
	}
	r := constants.Role(*role)
	if !r.Valid() {
		log.Fatalf("unknown role %q", *role)
	}

	token, expiresAt, err := auth.NewTokenService(secret, *ttl).Issue(*userID, r, *community)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println("Token:", token)
	fmt.Println("Expires:", expiresAt.Format(time.RFC3339))
}
