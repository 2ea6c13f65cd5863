// Package oidc verifies bearer ID tokens issued by an OpenID Connect provider.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/ports"
)

var _ ports.TokenVerifier = (*Verifier)(nil)

// ErrMissingEmail is returned when a verified token carries no usable email claim.
var ErrMissingEmail = errors.New("id token has no email claim")

// VerifierConfig holds configuration for the ID token verifier.
type VerifierConfig struct {
	// IssuerURL is the issuer or its discovery document URL.
	IssuerURL  string
	ClientID   string
	HTTPClient *http.Client // Optional, defaults to a client with a 30s timeout
}

// Verifier validates ID tokens against the provider's published keys.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// NewVerifier discovers the provider configuration and returns a verifier
// bound to the configured client id.
func NewVerifier(ctx context.Context, cfg VerifierConfig) (*Verifier, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	// go-oidc keeps this context for later JWKS refreshes.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")

	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	return &Verifier{verifier: op.Verifier(&gooidc.Config{ClientID: cfg.ClientID})}, nil
}

// NewVerifierFrom wraps an already configured go-oidc verifier.
func NewVerifierFrom(v *gooidc.IDTokenVerifier) *Verifier {
	return &Verifier{verifier: v}
}

type idTokenClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	UPN               string `json:"upn"`
}

func (c idTokenClaims) email() string {
	for _, v := range []string{c.Email, c.PreferredUsername, c.UPN} {
		if v = strings.TrimSpace(v); strings.Contains(v, "@") {
			return strings.ToLower(v)
		}
	}
	return ""
}

// Verify checks signature, issuer, audience and expiry of rawToken and
// returns the identity it asserts.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (domainauth.Identity, error) {
	if strings.TrimSpace(rawToken) == "" {
		return domainauth.Identity{}, errors.New("token is required")
	}

	tok, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims idTokenClaims
	if err := tok.Claims(&claims); err != nil {
		return domainauth.Identity{}, fmt.Errorf("decode id token claims: %w", err)
	}
	email := claims.email()
	if email == "" {
		return domainauth.Identity{}, ErrMissingEmail
	}

	return domainauth.Identity{
		Subject:   tok.Subject,
		Email:     email,
		ExpiresAt: tok.Expiry,
	}, nil
}
