// Package handler exposes the authorization engine over HTTP. Decision
// endpoints authenticate the principal from its bearer token; the
// introspection endpoints are operator-only and decide on behalf of any
// principal.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clubdir/internal/authz/decision"
	"clubdir/internal/authz/service"
	"clubdir/internal/platform/metrics"
	"clubdir/internal/platform/middleware"
	id "clubdir/pkg/domain"
	dErrors "clubdir/pkg/domain-errors"
	"clubdir/pkg/platform/audit"
	"clubdir/pkg/platform/httputil"
	adminmw "clubdir/pkg/platform/middleware/admin"
	"clubdir/pkg/platform/middleware/request"
	"clubdir/pkg/requestcontext"
)

// Service defines the decision operations the handler exposes.
type Service interface {
	Authorize(ctx context.Context, principal id.PrincipalID, action id.Action, target service.Target) (decision.Decision, error)
	CheckDeletable(ctx context.Context, principal id.PrincipalID, target service.Target) (decision.Decision, error)
}

// AuditLog reads back emitted decisions for the admin trail endpoint.
type AuditLog interface {
	List(ctx context.Context, principal id.PrincipalID) ([]audit.Event, error)
}

// Handler wires decision endpoints to the engine.
type Handler struct {
	engine     Service
	auditLog   AuditLog
	logger     *slog.Logger
	metrics    *metrics.Metrics
	validate   middleware.PrincipalValidator
	adminToken string
}

// New constructs the authorization handler. auditLog may be nil; the admin
// trail endpoint then reports not found.
func New(
	engine Service,
	auditLog AuditLog,
	logger *slog.Logger,
	m *metrics.Metrics,
	validate middleware.PrincipalValidator,
	adminToken string) *Handler {
	return &Handler{
		engine:     engine,
		auditLog:   auditLog,
		logger:     logger,
		metrics:    m,
		validate:   validate,
		adminToken: adminToken,
	}
}

// Register mounts the decision and admin routes.
func (h *Handler) Register(r chi.Router) {
	decide := chi.NewRouter()
	decide.Use(request.Middleware)
	decide.Use(middleware.RequirePrincipal(h.validate, h.logger))
	decide.With(h.metrics.Middleware("/v1/authorize")).Post("/authorize", h.handleAuthorize)
	decide.With(h.metrics.Middleware("/v1/deletable")).Post("/deletable", h.handleDeletable)

	admin := chi.NewRouter()
	admin.Use(request.Middleware)
	admin.Use(adminmw.RequireAdminToken(h.adminToken, h.logger))
	admin.Post("/introspect", h.handleIntrospect)
	admin.Get("/audit/{principalID}", h.handleAuditTrail)

	r.Mount("/v1", decide)
	r.Mount("/v1/admin", admin)
}

// handleAuthorize handles POST /v1/authorize.
func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	start := time.Now()

	principal := requestcontext.PrincipalID(ctx)
	if principal.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AuthorizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.engine.Authorize(ctx, principal, req.ParsedAction(), req.ParsedTarget())
	if err != nil {
		h.logger.ErrorContext(ctx, "authorization failed",
			"request_id", requestID,
			"principal", principal,
			"action", req.Action,
			"resource_type", req.ResourceType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "authorization decided",
		"request_id", requestID,
		"principal", principal,
		"action", req.Action,
		"resource_type", req.ResourceType,
		"allow", d.Allow,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromDecision(d))
}

// handleDeletable handles POST /v1/deletable.
func (h *Handler) handleDeletable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	principal := requestcontext.PrincipalID(ctx)
	if principal.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[DeletableRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.engine.CheckDeletable(ctx, principal, req.ParsedTarget())
	if err != nil {
		h.logger.ErrorContext(ctx, "delete check failed",
			"request_id", requestID,
			"principal", principal,
			"resource_type", req.ResourceType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDecision(d))
}

// handleIntrospect handles POST /v1/admin/introspect: the same decision as
// /v1/authorize but for an arbitrary principal, for operator debugging.
func (h *Handler) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IntrospectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.engine.Authorize(ctx, req.ParsedPrincipal(), req.ParsedAction(), req.ParsedTarget())
	if err != nil {
		h.logger.ErrorContext(ctx, "introspection failed",
			"request_id", requestID,
			"principal", req.PrincipalID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDecision(d))
}

// handleAuditTrail handles GET /v1/admin/audit/{principalID}.
func (h *Handler) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.auditLog == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "audit trail is not enabled"))
		return
	}

	principal, err := id.ParsePrincipalID(chi.URLParam(r, "principalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.auditLog.List(ctx, principal)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail read failed",
			"principal", principal,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "audit trail unavailable"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
