package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/tripdeskhq/tripdesk/internal/perrors"
	"github.com/tripdeskhq/tripdesk/internal/services"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

func RegisterUserRoutes(r *router.Router, svc *services.Services) {
	// Create user
	r.POST("/api/crm/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		actorID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		var body user.CreateUserRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name == "" || body.Email == "" || body.Password == "" {
			writeError(ctx, stdCtx, "Name, email and password are required", perrors.NewErrInvalidRequest("Name, email and password are required", errors.New("missing fields")))
			return
		}
		if !body.Role.Valid() {
			writeError(ctx, stdCtx, "Unknown role", perrors.NewErrInvalidRequest("Unknown role", errors.New("unknown role")))
			return
		}

		created, err := svc.User.Create(stdCtx, actorID, &body)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrNotAllowed):
				writeError(ctx, stdCtx, "Not allowed to create this user", perrors.New(perrors.ErrCodeForbidden, "Not allowed to create this user", err))
			case errors.Is(err, user.ErrEmailTaken):
				writeError(ctx, stdCtx, "A user with this email already exists", perrors.New(perrors.ErrCodeConflict, "A user with this email already exists", err))
			default:
				writeError(ctx, stdCtx, "Failed to create user", perrors.NewErrInternalServerError("Failed to create user", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "User created successfully", toUserResponse(created))
	})

	// List users visible to the caller
	r.GET("/api/crm/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		actorID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		users, err := svc.User.List(stdCtx, actorID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list users", perrors.NewErrInternalServerError("Failed to list users", err))
			return
		}

		out := make([]UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}

		writeOK(ctx, stdCtx, "Users retrieved successfully", out)
	})

	// Enable or disable a user
	r.PUT("/api/crm/users/{id}/active", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		actorID, err := actingUserID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", err))
			return
		}

		id, err := pathParamID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body struct {
			Active *bool `json:"active"`
		}
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}
		if body.Active == nil {
			writeError(ctx, stdCtx, "Active flag is required", perrors.NewErrInvalidRequest("Active flag is required", errors.New("active is required")))
			return
		}

		if err := svc.User.SetActive(stdCtx, actorID, id, *body.Active); err != nil {
			switch {
			case errors.Is(err, user.ErrUserNotFound):
				writeError(ctx, stdCtx, "User not found", perrors.New(perrors.ErrCodeNotFound, "User not found", err))
			case errors.Is(err, user.ErrNotAllowed):
				writeError(ctx, stdCtx, "Not allowed to modify this user", perrors.New(perrors.ErrCodeForbidden, "Not allowed to modify this user", err))
			default:
				writeError(ctx, stdCtx, "Failed to update user", perrors.NewErrInternalServerError("Failed to update user", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "User updated successfully", nil)
	})
}
