package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripdeskhq/tripdesk/internal/perrors"
	"github.com/tripdeskhq/tripdesk/internal/services"
	"github.com/tripdeskhq/tripdesk/internal/services/customer"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

func RegisterCustomerRoutes(r *router.Router, svc *services.Services) {
	// List customers
	r.GET("/api/crm/customers", func(ctx *fasthttp.RequestCtx) {
		stdCtx, span := tracer.Start(requestContext(ctx), "Controller.Customers.List")
		defer span.End()

		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var f customer.ListCustomersFilter
		if raw := stringQuery(ctx, "country"); raw != "" {
			f.Country = &raw
		}
		f.Search = stringQuery(ctx, "search")

		page, err := pageQuery(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid filter", perrors.NewErrInvalidRequest("Invalid filter", err))
			return
		}
		f.Page = page

		list, err := svc.Customer.List(stdCtx, userID, f)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to list customers", perrors.NewErrInternalServerError("Failed to list customers", err))
			return
		}

		writeOK(ctx, stdCtx, "Customers retrieved successfully", list)
	})

	// Get customer by id
	r.GET("/api/crm/customers/{id}", func(ctx *fasthttp.RequestCtx) {
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

		c, err := svc.Customer.Get(stdCtx, userID, id)
		if err != nil {
			switch {
			case errors.Is(err, customer.ErrCustomerNotFound):
				writeError(ctx, stdCtx, "Customer not found", perrors.New(perrors.ErrCodeNotFound, "Customer not found", err))
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			default:
				writeError(ctx, stdCtx, "Failed to get customer", perrors.NewErrInternalServerError("Failed to get customer", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Customer retrieved successfully", c)
	})

	// Create customer
	r.POST("/api/crm/customers", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		userID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var body customer.CreateCustomerRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name == "" {
			writeError(ctx, stdCtx, "Name is required", perrors.NewErrInvalidRequest("Name is required", errors.New("name is required")))
			return
		}

		created, err := svc.Customer.Create(stdCtx, userID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create customer", perrors.NewErrInternalServerError("Failed to create customer", err))
			return
		}

		writeOK(ctx, stdCtx, "Customer created successfully", created)
	})

	// Update customer
	r.PUT("/api/crm/customers/{id}", func(ctx *fasthttp.RequestCtx) {
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

		var body customer.UpdateCustomerRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name != nil && *body.Name == "" {
			writeError(ctx, stdCtx, "Name cannot be empty", perrors.NewErrInvalidRequest("Name cannot be empty", errors.New("name cannot be empty")))
			return
		}

		updated, err := svc.Customer.Update(stdCtx, userID, id, &body)
		if err != nil {
			switch {
			case errors.Is(err, customer.ErrCustomerNotFound):
				writeError(ctx, stdCtx, "Customer not found", perrors.New(perrors.ErrCodeNotFound, "Customer not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to update customer", perrors.NewErrInternalServerError("Failed to update customer", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Customer updated successfully", updated)
	})
}
