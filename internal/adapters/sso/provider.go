// Package sso implements the OpenID Connect login flow and cookie sessions
// used by the session-gated routes when auth.mode is oidc.
package sso

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/jsamuelsen/quotefault/internal/platform/config"
)

// Claims are the identity claims taken from a verified ID token.
type Claims struct {
	Subject  string
	Username string
}

// IdentityProvider performs the authorization code exchange.
type IdentityProvider interface {
	// AuthCodeURL returns the provider URL the browser is sent to.
	AuthCodeURL(state, nonce string) string

	// Exchange redeems code and verifies the returned ID token against nonce.
	Exchange(ctx context.Context, code, nonce string) (*Claims, error)
}

// OIDCProvider is an IdentityProvider backed by a discovered OIDC issuer.
type OIDCProvider struct {
	verifier *oidc.IDTokenVerifier
	oauth2   *oauth2.Config
}

// NewOIDCProvider discovers the issuer and prepares the code flow.
func NewOIDCProvider(ctx context.Context, cfg *config.OIDCConfig) (*OIDCProvider, error) {
	if cfg == nil {
		return nil, errors.New("oidc config is required")
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discovering oidc issuer: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile"}
	}

	return &OIDCProvider{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		},
	}, nil
}

// AuthCodeURL implements IdentityProvider.
func (p *OIDCProvider) AuthCodeURL(state, nonce string) string {
	return p.oauth2.AuthCodeURL(state, oidc.Nonce(nonce))
}

// Exchange implements IdentityProvider.
func (p *OIDCProvider) Exchange(ctx context.Context, code, nonce string) (*Claims, error) {
	token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("token response has no id_token")
	}

	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verifying id token: %w", err)
	}

	if idToken.Nonce != nonce {
		return nil, errors.New("id token nonce mismatch")
	}

	var claims struct {
		PreferredUsername string `json:"preferred_username"`
	}

	err = idToken.Claims(&claims)
	if err != nil {
		return nil, fmt.Errorf("decoding claims: %w", err)
	}

	if claims.PreferredUsername == "" {
		return nil, errors.New("id token has no preferred_username")
	}

	return &Claims{Subject: idToken.Subject, Username: claims.PreferredUsername}, nil
}
