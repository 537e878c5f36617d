package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"furnistore/internal/session"
)

// Issues a session token for local testing of checkout prefill.
func main() {
	subject := flag.String("sub", "", "shopper id (required)")
	name := flag.String("name", "", "full name")
	email := flag.String("email", "", "email address")
	phone := flag.String("phone", "", "phone number")
	address := flag.String("address", "", "street address")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" || *subject == "" {
		fmt.Println("Usage: SESSION_SECRET=<secret> go run ./cmd/token -sub <id> [-name ..] [-email ..] [-phone ..] [-address ..]")
		fmt.Println("Example: SESSION_SECRET=dev go run ./cmd/token -sub u-42 -name \"Budi Santoso\" -email budi@example.com")
		os.Exit(1)
	}

	tokens := session.NewTokenService(secret, *ttl)
	token, expiresAt, err := tokens.Issue(session.Identity{
		Subject: *subject,
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Address: *address,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Token expires at %s\n\n", expiresAt.Format(time.RFC3339))
	fmt.Printf("Authorization: Bearer %s\n", token)
}
