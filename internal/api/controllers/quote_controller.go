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
	"github.com/tripdeskhq/tripdesk/internal/services/quote"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

func RegisterQuoteRoutes(r *router.Router, svc *services.Services) {
	// List quotes
	r.GET("/api/crm/quotes", func(ctx *fasthttp.RequestCtx) {
		stdCtx, span := tracer.Start(requestContext(ctx), "Controller.Quotes.List")
		defer span.End()

		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var f quote.ListQuotesFilter
		if raw := stringQuery(ctx, "status"); raw != "" {
			status := quote.Status(raw)
			if !status.Valid() {
				writeError(ctx, stdCtx, "Unknown status", perrors.NewErrInvalidRequest("Unknown status", errors.New("unknown status")))
				return
			}
			f.Status = &status
		}
		f.Search = stringQuery(ctx, "search")

		page, err := pageQuery(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid filter", perrors.NewErrInvalidRequest("Invalid filter", err))
			return
		}
		f.Page = page

		list, err := svc.Quote.List(stdCtx, userID, f)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to list quotes", perrors.NewErrInternalServerError("Failed to list quotes", err))
			return
		}

		writeOK(ctx, stdCtx, "Quotes retrieved successfully", list)
	})

	// Get quote by id
	r.GET("/api/crm/quotes/{id}", func(ctx *fasthttp.RequestCtx) {
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

		q, err := svc.Quote.Get(stdCtx, userID, id)
		if err != nil {
			switch {
			case errors.Is(err, quote.ErrQuoteNotFound):
				writeError(ctx, stdCtx, "Quote not found", perrors.New(perrors.ErrCodeNotFound, "Quote not found", err))
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			default:
				writeError(ctx, stdCtx, "Failed to get quote", perrors.NewErrInternalServerError("Failed to get quote", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Quote retrieved successfully", q)
	})

	// Create quote
	r.POST("/api/crm/quotes", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var body quote.CreateQuoteRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.CustomerID < 1 {
			writeError(ctx, stdCtx, "Customer is required", perrors.NewErrInvalidRequest("Customer is required", errors.New("customer_id is required")))
			return
		}
		if body.Amount < 0 {
			writeError(ctx, stdCtx, "Amount cannot be negative", perrors.NewErrInvalidRequest("Amount cannot be negative", errors.New("negative amount")))
			return
		}

		created, err := svc.Quote.Create(stdCtx, userID, &body)
		if err != nil {
			switch {
			case errors.Is(err, customer.ErrCustomerNotFound):
				writeError(ctx, stdCtx, "Customer not found", perrors.New(perrors.ErrCodeNotFound, "Customer not found", err))
			case errors.Is(err, lead.ErrLeadNotFound):
				writeError(ctx, stdCtx, "Lead not found", perrors.New(perrors.ErrCodeNotFound, "Lead not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to create quote", perrors.NewErrInternalServerError("Failed to create quote", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Quote created successfully", created)
	})

	// Update quote
	r.PUT("/api/crm/quotes/{id}", func(ctx *fasthttp.RequestCtx) {
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

		var body quote.UpdateQuoteRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Status != nil && !body.Status.Valid() {
			writeError(ctx, stdCtx, "Unknown status", perrors.NewErrInvalidRequest("Unknown status", errors.New("unknown status")))
			return
		}
		if body.Amount != nil && *body.Amount < 0 {
			writeError(ctx, stdCtx, "Amount cannot be negative", perrors.NewErrInvalidRequest("Amount cannot be negative", errors.New("negative amount")))
			return
		}

		updated, err := svc.Quote.Update(stdCtx, userID, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, quote.ErrQuoteNotFound):
				writeError(ctx, stdCtx, "Quote not found", perrors.New(perrors.ErrCodeNotFound, "Quote not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to update quote", perrors.NewErrInternalServerError("Failed to update quote", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Quote updated successfully", updated)
	})
}
