package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"

	"github.com/tripdeskhq/tripdesk/internal/api/response"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

var tracer = otel.Tracer("Controller")

// requestContext returns the context handlers should pass downstream. The
// middleware extracts inbound W3C trace headers into the "traceCtx" user
// value, so spans started from it join the caller's trace.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}

// actingUserID returns the authenticated caller set by the auth middleware.
// Handlers behind the middleware always have it; a missing value means the
// route was registered without protection and the request must not proceed.
func actingUserID(ctx *fasthttp.RequestCtx) (int64, error) {
	id, ok := ctx.UserValue("userID").(int64)
	if !ok {
		return 0, errors.New("no authenticated user on request")
	}
	return id, nil
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamID(ctx *fasthttp.RequestCtx, key string) (int64, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}

	return id, nil
}

func stringQuery(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// pageQuery reads page/limit query parameters. Both are optional; an absent
// limit leaves the listing unbounded.
func pageQuery(ctx *fasthttp.RequestCtx) (scope.PageRequest, error) {
	var req scope.PageRequest

	if raw := stringQuery(ctx, "page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, errors.New("page must be a positive integer")
		}
		req.Page = page
	}

	if raw := stringQuery(ctx, "limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return req, errors.New("limit must be a positive integer")
		}
		req.Limit = limit
	}

	return req, nil
}
