// Command tokengen mints a bearer token for local development, standing in
// for the external identity provider. The secret, issuer and audience come
// from the same configuration the server loads, so the token verifies
// against a locally running instance.
//
//	JWT_SECRET=... go run ./cmd/tokengen -subject auth0|someone -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sakif/connectly/internal/auth"
	"github.com/sakif/connectly/internal/config"
)

func main() {
	subject := flag.String("subject", "", "external subject claim to embed")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "tokengen: -subject is required")
		os.Exit(2)
	}

	cfg := config.Load()
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	token, err := tokens.GenerateWithDuration(*subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
