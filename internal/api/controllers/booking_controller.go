package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripdeskhq/tripdesk/internal/perrors"
	"github.com/tripdeskhq/tripdesk/internal/services"
	"github.com/tripdeskhq/tripdesk/internal/services/booking"
	"github.com/tripdeskhq/tripdesk/internal/services/customer"
	"github.com/tripdeskhq/tripdesk/internal/services/quote"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

func RegisterBookingRoutes(r *router.Router, svc *services.Services) {
	// List bookings
	r.GET("/api/crm/bookings", func(ctx *fasthttp.RequestCtx) {
		stdCtx, span := tracer.Start(requestContext(ctx), "Controller.Bookings.List")
		defer span.End()

		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var f booking.ListBookingsFilter
		if raw := stringQuery(ctx, "status"); raw != "" {
			status := booking.Status(raw)
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

		list, err := svc.Booking.List(stdCtx, userID, f)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to list bookings", perrors.NewErrInternalServerError("Failed to list bookings", err))
			return
		}

		writeOK(ctx, stdCtx, "Bookings retrieved successfully", list)
	})

	// Get booking by id
	r.GET("/api/crm/bookings/{id}", func(ctx *fasthttp.RequestCtx) {
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

		b, err := svc.Booking.Get(stdCtx, userID, id)
		if err != nil {
			switch {
			case errors.Is(err, booking.ErrBookingNotFound):
				writeError(ctx, stdCtx, "Booking not found", perrors.New(perrors.ErrCodeNotFound, "Booking not found", err))
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			default:
				writeError(ctx, stdCtx, "Failed to get booking", perrors.NewErrInternalServerError("Failed to get booking", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Booking retrieved successfully", b)
	})

	// Create booking
	r.POST("/api/crm/bookings", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var body booking.CreateBookingRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.CustomerID < 1 {
			writeError(ctx, stdCtx, "Customer is required", perrors.NewErrInvalidRequest("Customer is required", errors.New("customer_id is required")))
			return
		}
		if body.TotalAmount < 0 {
			writeError(ctx, stdCtx, "Total amount cannot be negative", perrors.NewErrInvalidRequest("Total amount cannot be negative", errors.New("negative amount")))
			return
		}

		created, err := svc.Booking.Create(stdCtx, userID, &body)
		if err != nil {
			switch {
			case errors.Is(err, customer.ErrCustomerNotFound):
				writeError(ctx, stdCtx, "Customer not found", perrors.New(perrors.ErrCodeNotFound, "Customer not found", err))
			case errors.Is(err, quote.ErrQuoteNotFound):
				writeError(ctx, stdCtx, "Quote not found", perrors.New(perrors.ErrCodeNotFound, "Quote not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to create booking", perrors.NewErrInternalServerError("Failed to create booking", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Booking created successfully", created)
	})

	// Update booking
	r.PUT("/api/crm/bookings/{id}", func(ctx *fasthttp.RequestCtx) {
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

		var body booking.UpdateBookingRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Status != nil && !body.Status.Valid() {
			writeError(ctx, stdCtx, "Unknown status", perrors.NewErrInvalidRequest("Unknown status", errors.New("unknown status")))
			return
		}
		if body.TotalAmount != nil && *body.TotalAmount < 0 {
			writeError(ctx, stdCtx, "Total amount cannot be negative", perrors.NewErrInvalidRequest("Total amount cannot be negative", errors.New("negative amount")))
			return
		}

		updated, err := svc.Booking.Update(stdCtx, userID, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, booking.ErrBookingNotFound):
				writeError(ctx, stdCtx, "Booking not found", perrors.New(perrors.ErrCodeNotFound, "Booking not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to update booking", perrors.NewErrInternalServerError("Failed to update booking", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Booking updated successfully", updated)
	})
}
