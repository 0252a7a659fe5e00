package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripdeskhq/tripdesk/internal/perrors"
	"github.com/tripdeskhq/tripdesk/internal/services"
	"github.com/tripdeskhq/tripdesk/internal/services/booking"
	"github.com/tripdeskhq/tripdesk/internal/services/payment"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

func RegisterPaymentRoutes(r *router.Router, svc *services.Services) {
	// List payments
	r.GET("/api/crm/payments", func(ctx *fasthttp.RequestCtx) {
		stdCtx, span := tracer.Start(requestContext(ctx), "Controller.Payments.List")
		defer span.End()

		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var f payment.ListPaymentsFilter
		if raw := stringQuery(ctx, "status"); raw != "" {
			status := payment.Status(raw)
			if !status.Valid() {
				writeError(ctx, stdCtx, "Unknown status", perrors.NewErrInvalidRequest("Unknown status", errors.New("unknown status")))
				return
			}
			f.Status = &status
		}
		if raw := stringQuery(ctx, "payment_method"); raw != "" {
			method := payment.Method(raw)
			if !method.Valid() {
				writeError(ctx, stdCtx, "Unknown payment method", perrors.NewErrInvalidRequest("Unknown payment method", errors.New("unknown payment method")))
				return
			}
			f.Method = &method
		}
		f.Search = stringQuery(ctx, "search")

		page, err := pageQuery(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid filter", perrors.NewErrInvalidRequest("Invalid filter", err))
			return
		}
		f.Page = page

		list, err := svc.Payment.List(stdCtx, userID, f)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to list payments", perrors.NewErrInternalServerError("Failed to list payments", err))
			return
		}

		writeOK(ctx, stdCtx, "Payments retrieved successfully", list)
	})

	// Get payment by id
	r.GET("/api/crm/payments/{id}", func(ctx *fasthttp.RequestCtx) {
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

		p, err := svc.Payment.Get(stdCtx, userID, id)
		if err != nil {
			switch {
			case errors.Is(err, payment.ErrPaymentNotFound):
				writeError(ctx, stdCtx, "Payment not found", perrors.New(perrors.ErrCodeNotFound, "Payment not found", err))
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			default:
				writeError(ctx, stdCtx, "Failed to get payment", perrors.NewErrInternalServerError("Failed to get payment", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Payment retrieved successfully", p)
	})

	// Record payment
	r.POST("/api/crm/payments", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var body payment.CreatePaymentRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.BookingID < 1 {
			writeError(ctx, stdCtx, "Booking is required", perrors.NewErrInvalidRequest("Booking is required", errors.New("booking_id is required")))
			return
		}
		if !body.Method.Valid() {
			writeError(ctx, stdCtx, "Unknown payment method", perrors.NewErrInvalidRequest("Unknown payment method", errors.New("unknown payment method")))
			return
		}
		if body.Amount <= 0 {
			writeError(ctx, stdCtx, "Amount must be positive", perrors.NewErrInvalidRequest("Amount must be positive", errors.New("non-positive amount")))
			return
		}

		created, err := svc.Payment.Create(stdCtx, userID, &body)
		if err != nil {
			switch {
			case errors.Is(err, booking.ErrBookingNotFound):
				writeError(ctx, stdCtx, "Booking not found", perrors.New(perrors.ErrCodeNotFound, "Booking not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to record payment", perrors.NewErrInternalServerError("Failed to record payment", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Payment recorded successfully", created)
	})

	// Update payment
	r.PUT("/api/crm/payments/{id}", func(ctx *fasthttp.RequestCtx) {
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

		var body payment.UpdatePaymentRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Status != nil && !body.Status.Valid() {
			writeError(ctx, stdCtx, "Unknown status", perrors.NewErrInvalidRequest("Unknown status", errors.New("unknown status")))
			return
		}
		if body.Amount != nil && *body.Amount <= 0 {
			writeError(ctx, stdCtx, "Amount must be positive", perrors.NewErrInvalidRequest("Amount must be positive", errors.New("non-positive amount")))
			return
		}

		updated, err := svc.Payment.Update(stdCtx, userID, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, payment.ErrPaymentNotFound):
				writeError(ctx, stdCtx, "Payment not found", perrors.New(perrors.ErrCodeNotFound, "Payment not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to update payment", perrors.NewErrInternalServerError("Failed to update payment", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Payment updated successfully", updated)
	})
}
