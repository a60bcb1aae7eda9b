package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"account-api.backend/pkg/crypto"
	"account-api.backend/pkg/validation"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = crypto.HashPassword
	fatalfFn       = log.Fatalf
)

var errNoPassword = errors.New("usage: hash-gen <password>")

func resolvePassword(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", errNoPassword
	}
	return args[0], nil
}

// main prints a bcrypt hash suitable for seeding the users.password column
func main() {
	password, err := resolvePassword(os.Args[1:])
	if err != nil {
		fatalfFn("%v", err)
		return
	}

	if len(password) > validation.MaxPasswordBytes {
		fatalfFn("Password exceeds %d bytes and cannot be hashed with bcrypt", validation.MaxPasswordBytes)
		return
	}

	if !validation.IsStrongPassword(password) {
		printfFn("Warning: password does not satisfy the registration policy\n")
	}

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
		return
	}

	printfFn("Bcrypt Hash: %s\n", hash)
}
