package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

const testAppURL = "https://crm.example.com"

func requestWithURI(uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI(uri)
	return &ctx
}

func TestRedirectTargetDefaultsToAppURL(t *testing.T) {
	ctx := requestWithURI("/api/crm/auth/sso/login")

	assert.Equal(t, testAppURL, redirectTarget(ctx, testAppURL))
}

func TestRedirectTargetKeepsSameOriginURL(t *testing.T) {
	ctx := requestWithURI("/api/crm/auth/sso/login?redirect=https%3A%2F%2Fcrm.example.com%2Ftrips%2F42")

	assert.Equal(t, "https://crm.example.com/trips/42", redirectTarget(ctx, testAppURL))
}

func TestRedirectTargetResolvesRelativePath(t *testing.T) {
	ctx := requestWithURI("/api/crm/auth/sso/login?redirect=%2Ftrips%2F42")

	assert.Equal(t, "https://crm.example.com/trips/42", redirectTarget(ctx, testAppURL))
}

// A login link pointing the post-auth redirect at another site must not be
// honored: the session cookie is set right before the redirect fires.
func TestRedirectTargetRejectsForeignOrigin(t *testing.T) {
	cases := []struct {
		name     string
		redirect string
	}{
		{"other host", "https%3A%2F%2Fevil.example"},
		{"other scheme", "http%3A%2F%2Fcrm.example.com%2Ftrips"},
		{"scheme relative", "%2F%2Fevil.example%2Ftrips"},
		{"not a url", "%25%25%25"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := requestWithURI("/api/crm/auth/sso/login?redirect=" + tc.redirect)

			assert.Equal(t, testAppURL, redirectTarget(ctx, testAppURL))
		})
	}
}
