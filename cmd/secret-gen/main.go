package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"smilecare.backend/pkg/crypto"
)

const minSecretBytes = 32

var generateTokenFn = crypto.GenerateRandomToken

// validateInputs rejects secrets too short for HMAC-SHA256 signing
func validateInputs(n int) error {
	if n < minSecretBytes {
		return fmt.Errorf("invalid bytes: %d (minimum %d)", n, minSecretBytes)
	}
	return nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("secret-gen", flag.ContinueOnError)
	n := fs.Int("bytes", 64, "random bytes in the signing secret")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateInputs(*n); err != nil {
		return err
	}

	secret, err := generateTokenFn(*n)
	if err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}

	_, _ = fmt.Fprintf(out, "JWT_SECRET=%s\n", secret)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
