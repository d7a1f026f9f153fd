// Package telemetry traces reconciliation passes as an operation span with
// one child span per planned step.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	PlanEventName = "dockhosts.plan"
	PlanJSONKey   = "dockhosts.plan.json"
)

type PlannedStep struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Plan struct {
	Steps []PlannedStep `json:"steps"`
}

// Operation is a running root span. A nil *Operation runs steps untraced.
type Operation struct {
	ctx    context.Context
	tracer trace.Tracer
	span   trace.Span
	steps  map[string]struct{}
}

// Start opens the root span for operation and records plan on it.
func Start(ctx context.Context, tracer trace.Tracer, operation string, plan Plan, attrs ...attribute.KeyValue) (*Operation, error) {
	if tracer == nil {
		return nil, fmt.Errorf("start operation: tracer is required")
	}
	steps, err := validatePlan(plan)
	if err != nil {
		return nil, fmt.Errorf("start operation %q: %w", operation, err)
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("start operation %q: marshal plan: %w", operation, err)
	}

	attrs = append(attrs, attribute.String(PlanJSONKey, string(planJSON)))
	spanCtx, span := tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	span.AddEvent(PlanEventName)
	return &Operation{ctx: spanCtx, tracer: tracer, span: span, steps: steps}, nil
}

func (o *Operation) Context() context.Context {
	if o == nil {
		return context.Background()
	}
	return o.ctx
}

// RunStep runs fn inside a child span named id, started from ctx. The step
// must be in the plan.
func (o *Operation) RunStep(ctx context.Context, id string, fn func(context.Context) error) error {
	if o == nil {
		return fn(ctx)
	}
	if _, ok := o.steps[id]; !ok {
		return fmt.Errorf("run step %q: not in plan", id)
	}

	stepCtx, span := o.tracer.Start(ctx, id)
	defer span.End()

	if err := fn(stepCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
		return err
	}
	return nil
}

// SetAttributes annotates the root span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	if o == nil || o.span == nil {
		return
	}
	o.span.SetAttributes(attrs...)
}

// End closes the root span, marking it failed when err is non-nil.
func (o *Operation) End(err error) {
	if o == nil || o.span == nil {
		return
	}
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
	}
	o.span.End()
}

func validatePlan(plan Plan) (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(plan.Steps))
	for i, step := range plan.Steps {
		id := strings.TrimSpace(step.ID)
		if id == "" {
			return nil, fmt.Errorf("step %d has empty id", i)
		}
		if _, exists := ids[id]; exists {
			return nil, fmt.Errorf("duplicate step id %q", id)
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}
