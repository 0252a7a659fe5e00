package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripdeskhq/tripdesk/internal/perrors"
	"github.com/tripdeskhq/tripdesk/internal/services"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

func RegisterDashboardRoutes(r *router.Router, svc *services.Services) {
	// Dashboard aggregates, computed over the caller's visible records only.
	r.GET("/api/crm/dashboard", func(ctx *fasthttp.RequestCtx) {
		stdCtx, span := tracer.Start(requestContext(ctx), "Controller.Dashboard.Stats")
		defer span.End()

		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		stats, err := svc.Dashboard.Stats(stdCtx, userID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to compute dashboard stats", perrors.NewErrInternalServerError("Failed to compute dashboard stats", err))
			return
		}

		writeOK(ctx, stdCtx, "Dashboard stats retrieved successfully", stats)
	})
}
