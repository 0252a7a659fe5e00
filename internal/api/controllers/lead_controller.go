package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripdeskhq/tripdesk/internal/perrors"
	"github.com/tripdeskhq/tripdesk/internal/services"
	"github.com/tripdeskhq/tripdesk/internal/services/customer"
	"github.com/tripdeskhq/tripdesk/internal/services/lead"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

func leadListFilter(ctx *fasthttp.RequestCtx) (lead.ListLeadsFilter, error) {
	var f lead.ListLeadsFilter

	if raw := stringQuery(ctx, "status"); raw != "" {
		status := lead.Status(raw)
		if !status.Valid() {
			return f, errors.New("unknown status")
		}
		f.Status = &status
	}

	if raw := stringQuery(ctx, "priority"); raw != "" {
		priority := lead.Priority(raw)
		if !priority.Valid() {
			return f, errors.New("unknown priority")
		}
		f.Priority = &priority
	}

	f.Search = stringQuery(ctx, "search")

	page, err := pageQuery(ctx)
	if err != nil {
		return f, err
	}
	f.Page = page

	return f, nil
}

func RegisterLeadRoutes(r *router.Router, svc *services.Services) {
	// List leads
	r.GET("/api/crm/leads", func(ctx *fasthttp.RequestCtx) {
		stdCtx, span := tracer.Start(requestContext(ctx), "Controller.Leads.List")
		defer span.End()

		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		f, err := leadListFilter(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid filter", perrors.NewErrInvalidRequest("Invalid filter", err))
			return
		}

		list, err := svc.Lead.List(stdCtx, userID, f)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to list leads", perrors.NewErrInternalServerError("Failed to list leads", err))
			return
		}

		writeOK(ctx, stdCtx, "Leads retrieved successfully", list)
	})

	// Get lead by id
	r.GET("/api/crm/leads/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		id, err := pathParamID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		l, err := svc.Lead.Get(stdCtx, userID, id)
		if err != nil {
			switch {
			case errors.Is(err, lead.ErrLeadNotFound):
				writeError(ctx, stdCtx, "Lead not found", perrors.New(perrors.ErrCodeNotFound, "Lead not found", err))
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			default:
				writeError(ctx, stdCtx, "Failed to get lead", perrors.NewErrInternalServerError("Failed to get lead", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Lead retrieved successfully", l)
	})

	// Create lead
	r.POST("/api/crm/leads", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var body lead.CreateLeadRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.ContactName == "" && body.CustomerID == nil {
			writeError(ctx, stdCtx, "Contact name or customer is required", perrors.NewErrInvalidRequest("Contact name or customer is required", errors.New("missing contact")))
			return
		}
		if body.Priority != "" && !body.Priority.Valid() {
			writeError(ctx, stdCtx, "Unknown priority", perrors.NewErrInvalidRequest("Unknown priority", errors.New("unknown priority")))
			return
		}

		created, err := svc.Lead.Create(stdCtx, userID, &body)
		if err != nil {
			switch {
			case errors.Is(err, customer.ErrCustomerNotFound):
				writeError(ctx, stdCtx, "Customer not found", perrors.New(perrors.ErrCodeNotFound, "Customer not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to create lead", perrors.NewErrInternalServerError("Failed to create lead", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Lead created successfully", created)
	})

	// Update lead
	r.PUT("/api/crm/leads/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		id, err := pathParamID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body lead.UpdateLeadRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Status != nil && !body.Status.Valid() {
			writeError(ctx, stdCtx, "Unknown status", perrors.NewErrInvalidRequest("Unknown status", errors.New("unknown status")))
			return
		}
		if body.Priority != nil && !body.Priority.Valid() {
			writeError(ctx, stdCtx, "Unknown priority", perrors.NewErrInvalidRequest("Unknown priority", errors.New("unknown priority")))
			return
		}

		updated, err := svc.Lead.Update(stdCtx, userID, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, lead.ErrLeadNotFound):
				writeError(ctx, stdCtx, "Lead not found", perrors.New(perrors.ErrCodeNotFound, "Lead not found", err))
			case errors.Is(err, customer.ErrCustomerNotFound):
				writeError(ctx, stdCtx, "Customer not found", perrors.New(perrors.ErrCodeNotFound, "Customer not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to update lead", perrors.NewErrInternalServerError("Failed to update lead", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Lead updated successfully", updated)
	})
}
