package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"smilecare.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = crypto.HashPassword
	fatalfFn       = log.Fatalf
)

// resolvePassword takes the password from the first argument, falling back to HASH_PASSWORD
func resolvePassword(args []string, env func(string) string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if v := env("HASH_PASSWORD"); v != "" {
		return v, nil
	}
	return "", errors.New("usage: hash-gen <password> (or set HASH_PASSWORD)")
}

func main() {
	password, err := resolvePassword(os.Args[1:], os.Getenv)
	if err != nil {
		fatalfFn("%v", err)
		return
	}

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
		return
	}

	printfFn("Bcrypt Hash: %s\n", hash)
}
