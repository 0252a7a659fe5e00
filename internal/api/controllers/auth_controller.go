package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"

	"github.com/tripdeskhq/tripdesk/internal/api/authenticator"
	"github.com/tripdeskhq/tripdesk/internal/config"
	"github.com/tripdeskhq/tripdesk/internal/perrors"
	"github.com/tripdeskhq/tripdesk/internal/ratelimit"
	"github.com/tripdeskhq/tripdesk/internal/services"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"is_active"`
	CreatedBy   *int64   `json:"created_by"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Permissions: u.Permissions,
		IsActive:    u.IsActive,
		CreatedBy:   u.CreatedBy,
	}
}

func RegisterAuthRoutes(r *router.Router, conf *config.Config, svc *services.Services, auth *authenticator.Authenticator) {
	r.GET("/api/crm/auth/enabled", func(ctx *fasthttp.RequestCtx) {
		writeOK(ctx, requestContext(ctx), "success", map[string]any{
			"sso_enabled": auth.SSOEnabled(),
		})
	})

	// Login with email/password
	r.POST("/api/crm/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req LoginRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if req.Email == "" || req.Password == "" {
			writeError(ctx, stdCtx, "Email and password are required", perrors.NewErrInvalidRequest("Email and password are required", errors.New("missing credentials")))
			return
		}

		// Throttle by account, not by caller address, so a spray against one
		// account is slowed regardless of where it comes from.
		allowed, err := svc.LoginLimiter.Allow(stdCtx, req.Email, ratelimit.DefaultLoginLimit)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to check rate limit", perrors.NewErrInternalServerError("Failed to check rate limit", err))
			return
		}
		if !allowed {
			writeError(ctx, stdCtx, "Too many login attempts", perrors.New(perrors.ErrCodeTooManyRequests, "Too many login attempts", errors.New("login rate limit exceeded")))
			return
		}

		u, err := svc.User.Authenticate(stdCtx, req.Email, req.Password)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid credentials", perrors.NewErrUnauthorized("Invalid credentials", err))
			return
		}

		token, err := auth.IssueSessionToken(u)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", perrors.NewErrInternalServerError("Failed to generate token", err))
			return
		}

		setSessionCookie(ctx, token, 24*time.Hour)

		writeOK(ctx, stdCtx, "success", LoginResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	})

	// Get current user info
	r.GET("/api/crm/auth/me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		u, err := svc.User.GetByID(stdCtx, userID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get user", perrors.NewErrInternalServerError("Failed to get user", err))
			return
		}

		writeOK(ctx, stdCtx, "success", toUserResponse(u))
	})

	// Logout endpoint
	r.POST("/api/crm/auth/logout", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		// Clear the access_token cookie
		var cookie fasthttp.Cookie
		cookie.SetKey("access_token")
		cookie.SetValue("")
		cookie.SetPath("/")
		cookie.SetHTTPOnly(true)
		cookie.SetExpire(time.Now().Add(-1 * time.Hour))
		ctx.Response.Header.SetCookie(&cookie)

		writeOK(ctx, stdCtx, "success", map[string]any{
			"message": "Logged out successfully",
		})
	})

	r.GET("/api/crm/auth/sso/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if !auth.SSOEnabled() {
			writeError(ctx, stdCtx, "SSO is not enabled", perrors.NewErrInvalidRequest("SSO is not enabled", errors.New("sso is not configured")))
			return
		}

		csrf := make([]byte, 16)
		rand.Read(csrf)

		state := authenticator.OAuthState{
			CSRF:      base64.RawURLEncoding.EncodeToString(csrf),
			Redirect:  redirectTarget(ctx, conf.APP_URL),
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
		}

		encodedState, err := auth.GetSignedState(state)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create signed state", perrors.NewErrInternalServerError("Failed to create signed state", err))
			return
		}

		url := auth.AuthCodeURL(encodedState, oauth2.SetAuthURLParam("audience", "tripdesk-api"))
		ctx.Redirect(url, fasthttp.StatusTemporaryRedirect)
	})

	r.GET("/api/crm/auth/sso/callback", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		encodedState := ctx.URI().QueryArgs().Peek("state")
		code := ctx.URI().QueryArgs().Peek("code")

		if encodedState == nil || code == nil {
			writeError(ctx, stdCtx, "missing parameters", perrors.NewErrInvalidRequest("missing parameters", errors.New("missing parameters")))
			return
		}

		state, err := auth.VerifySignedState(string(encodedState))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to decode state", perrors.NewErrInvalidRequest("Failed to decode state", err))
			return
		}

		token, err := auth.Exchange(stdCtx, string(code))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to exchange token", perrors.NewErrUnauthorized("Failed to exchange token", err))
			return
		}

		idToken, err := auth.VerifyIDToken(stdCtx, token)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to verify ID token", perrors.NewErrUnauthorized("Failed to verify ID token", err))
			return
		}

		var profile struct {
			Email string `json:"email"`
		}
		if err := idToken.Claims(&profile); err != nil {
			writeError(ctx, stdCtx, "Failed to get claims", perrors.NewErrUnauthorized("Failed to get claims", err))
			return
		}

		// SSO identities must map onto a provisioned local account; there is
		// no just-in-time account creation.
		u, err := svc.User.GetByEmail(stdCtx, profile.Email)
		if err != nil {
			writeError(ctx, stdCtx, "No active account for this identity", perrors.NewErrUnauthorized("No active account for this identity", err))
			return
		}

		sessionToken, err := auth.IssueSessionToken(u)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", perrors.NewErrInternalServerError("Failed to generate token", err))
			return
		}

		setSessionCookie(ctx, sessionToken, time.Hour)

		ctx.Redirect(state.Redirect, fasthttp.StatusFound)
	})
}

func setSessionCookie(ctx *fasthttp.RequestCtx, token string, ttl time.Duration) {
	var cookie fasthttp.Cookie
	cookie.SetKey("access_token")
	cookie.SetValue(token)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(false) // MUST be true in production (HTTPS)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(time.Now().Add(ttl))
	ctx.Response.Header.SetCookie(&cookie)
}

// redirectTarget resolves where the browser lands after SSO completes. The
// redirect query parameter is only honored when it stays on the configured
// app origin; anything else falls back to the app URL so a crafted login
// link cannot hand a fresh session off to a foreign site.
func redirectTarget(ctx *fasthttp.RequestCtx, appURL string) string {
	redirect := stringQuery(ctx, "redirect")
	if redirect == "" {
		return appURL
	}

	// Origin-relative paths are fine, but "//host" is scheme-relative and
	// would leave the app.
	if strings.HasPrefix(redirect, "/") && !strings.HasPrefix(redirect, "//") {
		return strings.TrimSuffix(appURL, "/") + redirect
	}

	target, err := url.Parse(redirect)
	if err != nil {
		return appURL
	}
	app, err := url.Parse(appURL)
	if err != nil {
		return appURL
	}
	if target.Scheme == app.Scheme && target.Host == app.Host {
		return redirect
	}

	return appURL
}
