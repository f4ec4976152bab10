//go:build ignore

// This script generates secure random credentials for the swagger UI.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	fmt.Println("=== Assembly Service Key Generator ===")
	fmt.Println()

	swaggerPass, err := generateSecureKey(18)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating swagger password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("# Swagger UI basic auth (leave unset to serve the UI unprotected)")
	fmt.Println("SWAGGER_USER=admin")
	fmt.Printf("SWAGGER_PASS=%s\n", swaggerPass)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these credentials to version control")
	fmt.Println("- Use different credentials for each environment (dev, staging, prod)")
	fmt.Println("- Store production credentials in a secure secret manager")
}
