// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/quickly-pool/auth"
	"github.com/danielhkuo/quickly-pool/middleware"
	"github.com/danielhkuo/quickly-pool/models"
	"github.com/danielhkuo/quickly-pool/pools"
)

type PoolHandler struct {
	svc      *pools.Service
	verifier auth.Verifier
	validate *validator.Validate
}

func NewPoolHandler(svc *pools.Service, verifier auth.Verifier) *PoolHandler {
	return &PoolHandler{
		svc:      svc,
		verifier: verifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CountPools handles GET /pools/count
func (h *PoolHandler) CountPools(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.CountPools(r.Context())
	if err != nil {
		slog.Error("failed to count pools", "error", err)
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CountPoolsResponse{Count: count})
}

// CreatePool handles POST /pools
// A missing or invalid bearer token does not fail the request; the pool is
// created without an owner instead.
func (h *PoolHandler) CreatePool(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePoolRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	userID, err := h.verifier.Verify(r)
	if err != nil {
		slog.Debug("creating pool without owner", "reason", err)
		userID = ""
	}

	pool, err := h.svc.CreatePool(r.Context(), req.Title, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePoolResponse{
		PoolID: pool.ID,
		Code:   pool.Code,
	})
}

// JoinPool handles POST /pools/join
func (h *PoolHandler) JoinPool(w http.ResponseWriter, r *http.Request) {
	// Authenticate before touching the body
	userID, err := h.verifier.Verify(r)
	if err != nil {
		slog.Debug("join rejected", "reason", err)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "A valid bearer token is required")
		return
	}

	var req models.JoinPoolRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if _, err := h.svc.JoinPool(r.Context(), req.Code, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// writeServiceError maps pool service errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pools.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pools.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "A valid bearer token is required")
	case errors.Is(err, pools.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Pool not found")
	case errors.Is(err, pools.ErrAlreadyMember):
		middleware.ErrorResponseWithCode(w, http.StatusConflict, middleware.CodeAlreadyMember,
			"You already joined this pool")
	case errors.Is(err, pools.ErrUnavailable):
		slog.Warn("pool service unavailable", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Please try again")
	default:
		slog.Error("pool operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Title":
		if fe.Tag() == "required" {
			return "title is required"
		}
		return "title must be at most 120 characters"
	case "Code":
		if fe.Tag() == "required" {
			return "code is required"
		}
		return "code must be 6 uppercase letters or digits"
	default:
		return "Invalid request"
	}
}
