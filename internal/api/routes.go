package api

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tripdeskhq/tripdesk/internal/api/authenticator"
	"github.com/tripdeskhq/tripdesk/internal/api/controllers"
	"github.com/tripdeskhq/tripdesk/internal/config"
)

var tracePropagator = propagation.TraceContext{}

func (s *Server) initRoutes(conf *config.Config) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	auth, err := authenticator.New(conf)
	if err != nil {
		log.Fatal(err)
	}

	controllers.RegisterAuthRoutes(r, conf, s.services, auth)
	controllers.RegisterUserRoutes(r, s.services)
	controllers.RegisterCustomerRoutes(r, s.services)
	controllers.RegisterLeadRoutes(r, s.services)
	controllers.RegisterQuoteRoutes(r, s.services)
	controllers.RegisterBookingRoutes(r, s.services)
	controllers.RegisterPaymentRoutes(r, s.services)
	controllers.RegisterDashboardRoutes(r, s.services)

	return s.withMiddlewares(r.Handler, auth)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler, auth *authenticator.Authenticator) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))
		ctx.SetUserValue("traceCtx", traceCtx)

		// Auth check
		if !isPublicRoute(ctx) {
			accessToken := strings.TrimPrefix(string(ctx.Request.Header.Peek("Authorization")), "Bearer ")
			if accessToken == "" {
				accessToken = string(ctx.Request.Header.Cookie("access_token"))
			}

			if accessToken == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			userID, ok := s.resolveToken(ctx, auth, accessToken)
			if !ok {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			// Downstream handlers resolve visibility from this id on
			// every request; nothing else about the caller is trusted.
			ctx.SetUserValue("userID", userID)
		}

		next(ctx)

		slog.Info("Finished processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI), slog.Duration("duration", time.Since(start)))
	}
}

// resolveToken maps a bearer token to a local user id. Locally issued session
// tokens are tried first; when SSO is enabled, provider-issued access tokens
// are accepted and matched to a local account by email.
func (s *Server) resolveToken(ctx *fasthttp.RequestCtx, auth *authenticator.Authenticator, accessToken string) (int64, bool) {
	claims, err := auth.VerifySessionToken(accessToken)
	if err == nil {
		return claims.UserID, true
	}

	if !auth.SSOEnabled() {
		return 0, false
	}

	email, err := auth.VerifyProviderToken(ctx, accessToken)
	if err != nil {
		return 0, false
	}

	user, err := s.services.User.GetByEmail(ctx, email)
	if err != nil {
		slog.Warn("SSO token maps to no active account", slog.String("email", email))
		return 0, false
	}

	return user.ID, true
}

func applyCORS(ctx *fasthttp.RequestCtx) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}

func isPublicRoute(ctx *fasthttp.RequestCtx) bool {
	path := string(ctx.Path())

	publicAuthRoutes := []string{
		"/api/crm/auth/login",
		"/api/crm/auth/enabled",
		"/api/crm/auth/sso/login",
		"/api/crm/auth/sso/callback",
	}

	switch {
	case path == "/api/health":
		return true
	default:
		for _, route := range publicAuthRoutes {
			if path == route {
				return true
			}
		}
		return false
	}
}
