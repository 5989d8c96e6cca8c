// Command admintoken mints an editor token for the content API using the
// server's JWT configuration.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/glowetsu/backend/internal/infrastructure/auth"
	"github.com/glowetsu/backend/internal/infrastructure/config"
)

func main() {
	var (
		subject string
		ttl     time.Duration
	)
	flag.StringVar(&subject, "subject", "", "Editor identity recorded in the token (required)")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime; defaults to jwt.access_token_expiration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := mint(os.Stdout, cfg.JWT, subject, ttl); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// mint writes a signed editor token for subject to w, followed by its expiry
// on a second line.
func mint(w io.Writer, cfg config.JWTConfig, subject string, ttl time.Duration) error {
	if subject == "" {
		return errors.New("-subject is required")
	}
	if cfg.Secret == "" {
		return errors.New("jwt.secret is not configured")
	}
	if ttl > 0 {
		cfg.AccessTokenExpiration = ttl
	}

	token, expiresAt, err := auth.NewJWTService(cfg).GenerateEditorToken(subject)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\nexpires %s\n", token, expiresAt.UTC().Format(time.RFC3339))
	return err
}
