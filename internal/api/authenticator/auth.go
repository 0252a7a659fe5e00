// Package authenticator issues and verifies the session tokens carried by
// API callers. Password logins get an HS256 token signed with the server
// secret; when an OIDC domain is configured, SSO logins are supported and
// provider-issued RS256 access tokens are accepted as well.
package authenticator

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/bytedance/sonic"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tripdeskhq/tripdesk/internal/config"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
	"golang.org/x/oauth2"
)

const audience = "tripdesk-api"

// SessionClaims is the payload of locally issued session tokens.
type SessionClaims struct {
	UserID int64     `json:"uid"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	jwtSecret []byte
	tokenTTL  time.Duration

	// SSO, populated only when AUTH0_DOMAIN is configured.
	provider     *oidc.Provider
	oauthConfig  oauth2.Config
	stateSecret  string
	issuer       string
	jwksProvider *jwks.CachingProvider
	ssoEnabled   bool
}

func New(conf *config.Config) (*Authenticator, error) {
	if conf.JWT_SECRET == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	a := &Authenticator{
		jwtSecret: []byte(conf.JWT_SECRET),
		tokenTTL:  time.Duration(conf.JWT_TTL_HOURS) * time.Hour,
	}

	if conf.AUTH0_DOMAIN == "" {
		return a, nil
	}

	issuer := "https://" + conf.AUTH0_DOMAIN + "/"

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		return nil, err
	}

	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, err
	}

	a.provider = provider
	a.oauthConfig = oauth2.Config{
		ClientID:     conf.AUTH0_CLIENT_ID,
		ClientSecret: conf.AUTH0_CLIENT_SECRET,
		RedirectURL:  conf.AUTH0_CALLBACK_URL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	a.stateSecret = conf.STATE_SECRET
	a.issuer = issuer
	a.jwksProvider = jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	a.ssoEnabled = true

	return a, nil
}

func (a *Authenticator) SSOEnabled() bool {
	return a.ssoEnabled
}

// AuthCodeURL builds the provider redirect for an SSO login.
func (a *Authenticator) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return a.oauthConfig.AuthCodeURL(state, opts...)
}

// Exchange trades the callback code for provider tokens.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.oauthConfig.Exchange(ctx, code)
}

// IssueSessionToken mints a session token for an authenticated user.
func (a *Authenticator) IssueSessionToken(u *user.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(u.ID),
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}

// VerifySessionToken validates a locally issued session token.
func (a *Authenticator) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	}, jwt.WithAudience(audience))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// VerifyIDToken verifies that an *oauth2.Token carries a valid *oidc.IDToken.
func (a *Authenticator) VerifyIDToken(ctx context.Context, token *oauth2.Token) (*oidc.IDToken, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	oidcConfig := &oidc.Config{
		ClientID: a.oauthConfig.ClientID,
	}

	return a.provider.Verifier(oidcConfig).Verify(ctx, rawIDToken)
}

// VerifyProviderToken validates a provider-issued RS256 access token against
// the provider's JWKS and returns the email claim, which maps the external
// identity onto a local account.
func (a *Authenticator) VerifyProviderToken(ctx context.Context, token string) (string, error) {
	if !a.ssoEnabled {
		return "", errors.New("sso is not enabled")
	}

	jwtValidator, err := validator.New(a.jwksProvider.KeyFunc, validator.RS256, a.issuer, []string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &emailClaims{} }))
	if err != nil {
		return "", err
	}

	payload, err := jwtValidator.ValidateToken(ctx, token)
	if err != nil {
		return "", err
	}

	claims, ok := payload.(*validator.ValidatedClaims)
	if !ok {
		return "", errors.New("unexpected claims payload")
	}

	email, _ := claims.CustomClaims.(*emailClaims)
	if email == nil || email.Email == "" {
		return "", errors.New("access token carries no email claim")
	}
	return email.Email, nil
}

type emailClaims struct {
	Email string `json:"email"`
}

func (c *emailClaims) Validate(ctx context.Context) error {
	return nil
}

// OAuthState is the HMAC-signed state round-tripped through the provider.
type OAuthState struct {
	CSRF      string `json:"csrf"`
	Redirect  string `json:"redirect"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func (a *Authenticator) GetSignedState(state OAuthState) (string, error) {
	payload, err := sonic.Marshal(state)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	sig := mac.Sum(nil)

	combined := append(payload, sig...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

func (a *Authenticator) VerifySignedState(encodedState string) (*OAuthState, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedState)
	if err != nil {
		return nil, errors.New("invalid base64")
	}

	if len(raw) < sha256.Size {
		return nil, errors.New("state too short")
	}

	payload := raw[:len(raw)-sha256.Size]
	sig := raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	expectedSig := mac.Sum(nil)
	if !hmac.Equal(sig, expectedSig) {
		return nil, errors.New("invalid state signature")
	}

	var state OAuthState
	if err := sonic.Unmarshal(payload, &state); err != nil {
		return nil, errors.New("invalid state payload")
	}

	if time.Now().Unix() > state.ExpiresAt {
		return nil, errors.New("state expired")
	}

	return &state, nil
}
