// Package service assembles the authorization engine: scope resolution, role
// snapshots, clause evaluation, the onboarding carve-out, and the pre-delete
// guard, behind two host-facing calls. The engine decides; it never mutates
// directory state itself.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clubdir/internal/authz/constraint"
	"clubdir/internal/authz/decision"
	"clubdir/internal/authz/evaluator"
	"clubdir/internal/authz/metrics"
	"clubdir/internal/authz/onboarding"
	"clubdir/internal/authz/rolestore"
	"clubdir/internal/authz/scopegraph"
	"clubdir/internal/directory/ports"
	id "clubdir/pkg/domain"
	dErrors "clubdir/pkg/domain-errors"
	"clubdir/pkg/platform/audit"
	"clubdir/pkg/platform/middleware/request"
	"clubdir/pkg/requestcontext"
)

var tracer = otel.Tracer("clubdir/authz")

// Target identifies what a decision is about. For View, Update, Delete, and
// List-with-instance semantics, ID names an existing row and the engine
// resolves its chain. For Create, ID is zero and the caller supplies the
// parent chain plus, for grant rows, the proposed row content.
type Target struct {
	Type  id.ResourceType
	ID    id.ResourceID
	Owner id.PrincipalID
	Chain id.ScopeChain

	ProposedRoles []id.ClubRole
	ProposedScope id.AdminScope
}

// Engine is the authorization facade hosts embed.
type Engine struct {
	scopes  *scopegraph.Resolver
	roles   *rolestore.Store
	eval    *evaluator.Evaluator
	guard   *constraint.Checker
	onboard *onboarding.Policy

	logger  *slog.Logger
	audit   audit.Publisher
	metrics *metrics.Metrics
	policy  evaluator.Policy
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAuditPublisher attaches an audit sink. Without one, decisions are
// logged but not published.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(e *Engine) {
		e.audit = p
	}
}

// WithMetrics enables decision counters and latency histograms.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithPolicy overrides the evaluator's policy table.
func WithPolicy(p evaluator.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// New wires an engine over the given directory store.
func New(store ports.Store, opts ...Option) *Engine {
	e := &Engine{logger: slog.Default(), policy: evaluator.DefaultPolicy()}
	for _, opt := range opts {
		opt(e)
	}

	evalOpts := []evaluator.Option{evaluator.WithLogger(e.logger)}
	guardOpts := []constraint.Option{constraint.WithLogger(e.logger)}
	if e.metrics != nil {
		evalOpts = append(evalOpts, evaluator.WithMetrics(e.metrics))
		guardOpts = append(guardOpts, constraint.WithMetrics(e.metrics))
	}
	e.eval = evaluator.New(e.policy, evalOpts...)

	e.scopes = scopegraph.NewResolver(store, scopegraph.WithLogger(e.logger))
	e.roles = rolestore.New(store)
	e.guard = constraint.NewChecker(store, guardOpts...)
	e.onboard = onboarding.NewPolicy(onboarding.WithLogger(e.logger))
	return e
}

// Authorize decides one action for one principal. Deny is a normal result;
// an error means the engine could not decide (unknown target, inconsistent
// directory data, or an unavailable store).
func (e *Engine) Authorize(ctx context.Context, principal id.PrincipalID, action id.Action, target Target) (decision.Decision, error) {
	ctx, span := tracer.Start(ctx, "authz.Authorize")
	defer span.End()
	span.SetAttributes(
		attribute.String("authz.action", action.String()),
		attribute.String("authz.resource_type", target.Type.String()),
	)
	start := time.Now()

	if principal.IsNil() {
		return decision.Decision{}, dErrors.New(dErrors.CodeInvalidInput, "missing principal")
	}

	snapshot, err := e.roles.Load(ctx, principal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "role snapshot unavailable")
		e.emit(ctx, audit.EventStoreUnavailable, principal, action, target, decision.Decision{Reason: err.Error()})
		return decision.Decision{}, err
	}

	if action == id.ActionList {
		d := e.eval.CompileList(snapshot, target.Type)
		e.finish(ctx, span, start, principal, action, target, d)
		e.emit(ctx, audit.EventListCompiled, principal, action, target, d)
		return d, nil
	}

	resource, err := e.resolve(ctx, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "target resolution failed")
		if dErrors.HasCode(err, dErrors.CodeUnavailable) {
			e.emit(ctx, audit.EventStoreUnavailable, principal, action, target, decision.Decision{Reason: err.Error()})
		}
		return decision.Decision{}, err
	}

	d := e.eval.Evaluate(snapshot, action, resource)

	if !d.Allow && e.onboard.Applies(snapshot, action, resource) {
		d = e.onboard.Decide(snapshot, resource)
		e.finish(ctx, span, start, principal, action, target, d)
		if d.Allow {
			e.emit(ctx, audit.EventOnboardAllowed, principal, action, target, d)
		} else {
			e.emit(ctx, audit.EventOnboardDenied, principal, action, target, d)
		}
		return d, nil
	}

	e.finish(ctx, span, start, principal, action, target, d)
	if d.Allow {
		e.emit(ctx, audit.EventAccessAllowed, principal, action, target, d)
	} else {
		e.emit(ctx, audit.EventAccessDenied, principal, action, target, d)
	}
	return d, nil
}

// CheckDeletable authorizes a delete and then runs the referential guard.
// Both gates must pass; the guard runs inside the caller's transaction when
// one is carried in the context, so the verdict holds for the delete that
// follows.
func (e *Engine) CheckDeletable(ctx context.Context, principal id.PrincipalID, target Target) (decision.Decision, error) {
	ctx, span := tracer.Start(ctx, "authz.CheckDeletable")
	defer span.End()
	span.SetAttributes(attribute.String("authz.resource_type", target.Type.String()))

	d, err := e.Authorize(ctx, principal, id.ActionDelete, target)
	if err != nil || !d.Allow {
		return d, err
	}

	guardDecision, err := e.guard.CanDelete(ctx, target.Type, target.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete guard failed")
		return decision.Decision{}, err
	}
	if !guardDecision.Allow {
		e.emit(ctx, audit.EventDeleteBlocked, principal, id.ActionDelete, target, guardDecision)
		return guardDecision, nil
	}

	e.emit(ctx, audit.EventDeleteCleared, principal, id.ActionDelete, target, d)
	return d, nil
}

// resolve turns a target into the evaluator's resource view. Instance
// targets go through the scope graph; creation targets carry their parent
// chain from the caller.
func (e *Engine) resolve(ctx context.Context, target Target) (evaluator.Resource, error) {
	if target.ID.IsNil() {
		return evaluator.Resource{
			Type:          target.Type,
			Owner:         target.Owner,
			Chain:         target.Chain,
			ProposedRoles: target.ProposedRoles,
			ProposedScope: target.ProposedScope,
		}, nil
	}

	ref, err := e.scopes.ResolveScope(ctx, target.Type, target.ID)
	if err != nil {
		return evaluator.Resource{}, err
	}
	resource := evaluator.FromRef(ref)
	resource.ProposedRoles = target.ProposedRoles
	resource.ProposedScope = target.ProposedScope
	return resource, nil
}

func (e *Engine) finish(ctx context.Context, span trace.Span, start time.Time, principal id.PrincipalID, action id.Action, target Target, d decision.Decision) {
	span.SetStatus(codes.Ok, "")
	if e.metrics != nil {
		e.metrics.RecordDecision(action.String(), target.Type.String(), d.Allow)
		e.metrics.ObserveEvaluate(start)
	}
	e.logger.DebugContext(ctx, "authorization decided",
		"principal", principal,
		"action", action,
		"resource_type", target.Type,
		"resource_id", target.ID,
		"allow", d.Allow,
		"clause", d.Clause,
	)
}

func (e *Engine) emit(ctx context.Context, name audit.AuditEvent, principal id.PrincipalID, action id.Action, target Target, d decision.Decision) {
	if e.audit == nil {
		return
	}
	event := audit.Event{
		Category:      name.Category(),
		Principal:     principal,
		Action:        action.String(),
		ResourceType:  target.Type.String(),
		Decision:      string(name),
		Clause:        string(d.Clause),
		Reason:        d.Reason,
		RequestID:     requestcontext.RequestID(ctx),
		ClientIP:      requestcontext.ClientIP(ctx),
		ClientSummary: request.ClientSummary(requestcontext.UserAgent(ctx)),
	}
	if !target.ID.IsNil() {
		event.ResourceID = target.ID.String()
	}
	if err := e.audit.Emit(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "audit emit failed", "event", name, "error", err)
	}
}
