// Package main provides a CLI tool for generating test tokens for the
// workledger API. These tokens use the dev signing key by default and will
// NOT work against a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"workledger/internal/jwtauth"
)

// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
const devSigningKey = "dev-secret-key-change-in-production"

const defaultTokenTTL = 15 * time.Minute

type tokenOutput struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	Verifier  bool   `json:"verifier"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	subject := flag.String("subject", "", "Caller identity placed in the token subject (required)")
	verifier := flag.Bool("verifier", false, "Mark the subject as holding the verifier capability")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	key := flag.String("key", devSigningKey, "HMAC signing key (must match JWT_SIGNING_KEY)")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "error: -subject is required")
		flag.Usage()
		os.Exit(1)
	}

	tokens := jwtauth.NewService(*key, "workledger", *ttl)
	token, err := tokens.Issue(*subject, *verifier)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     token,
			Subject:   *subject,
			Verifier:  *verifier,
			ExpiresIn: ttl.String(),
			Usage:     fmt.Sprintf("curl -H 'Authorization: Bearer %s' ...", token),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Println(token)
}
