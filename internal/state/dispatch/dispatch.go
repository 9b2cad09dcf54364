// Package dispatch sequences an asynchronous backend call with the status tracker,
// the entity store and the fetch record of one content type.
//
// Flow of Run:
//
//	seq, epoch := Begin(op), current mutation epoch
//	result, err := call(ctx)
//	err      -> Fail(op, seq, message); store and fetch record untouched
//	fetch    -> under the writer lock, apply(result) and stamp keys only when seq is
//	            still the latest and no mutation completed since Begin
//	mutation -> under the writer lock, always apply(result), reset the fetch record
//	            and advance the epoch; Succeed(op, seq) only when seq is the latest
//
// A mutation is a committed backend write, so it is never dropped. A fetch is a
// snapshot and loses to any newer fetch of the same operation or any mutation.
//
// Every failure leaves as a *RejectedError; nothing is retried automatically.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/observability/tracing"
	"municipal-portal/internal/state/cachegate"
	"municipal-portal/internal/state/status"
)

// Kind tells the dispatcher what to do with the fetch record on success.
type Kind int

const (
	// Fetch stamps Operation.Keys.
	Fetch Kind = iota
	// Mutation clears the whole fetch record.
	Mutation
)

func (k Kind) String() string {
	if k == Mutation {
		return "mutation"
	}
	return "fetch"
}

// Operation describes one dispatch.
type Operation struct {
	Name           status.Op
	Kind           Kind
	Keys           []string
	SuccessMessage string
	// FailureMessage is shown when the error carries nothing safe to display.
	FailureMessage string
	// NotFoundMessage replaces FailureMessage for entity.ErrNotFound.
	NotFoundMessage string
	// Message overrides the default error to message mapping.
	Message func(err error) string
}

// RejectedError is what callers see when an operation fails.
type RejectedError struct {
	Op      status.Op
	Message string
	Err     error
}

func (e *RejectedError) Error() string { return e.Message }
func (e *RejectedError) Unwrap() error { return e.Err }

// Dispatcher binds the tracker and gate of one content type.
// Scope labels logs and metrics, e.g. "services".
type Dispatcher struct {
	Scope   string
	Status  *status.Tracker
	Gate    *cachegate.Gate
	Logger  *slog.Logger
	writeMu sync.Mutex
	// epoch counts completed mutations; guarded by writeMu.
	epoch uint64
}

// New creates a dispatcher with fresh tracker and gate. A nil logger falls back
// to slog.Default.
func New(scope string, gate *cachegate.Gate, logger *slog.Logger) *Dispatcher {
	if gate == nil {
		gate = cachegate.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Scope:  scope,
		Status: status.NewTracker(),
		Gate:   gate,
		Logger: logger.With(slog.String("scope", scope)),
	}
}

// Write runs fn under the writer lock. Synchronous reducers (set filters, clear
// current, reset) use it so they never interleave with an apply step.
func (d *Dispatcher) Write(fn func()) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	fn()
}

// Run executes call and applies its result. The result is returned to the caller
// even when the completion is stale, because it is still the answer to that call.
func Run[R any](ctx context.Context, d *Dispatcher, op Operation, call func(context.Context) (R, error), apply func(R)) (R, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "dispatch."+string(op.Name),
		trace.WithAttributes(
			attribute.String("dispatch.scope", d.Scope),
			attribute.String("dispatch.kind", op.Kind.String()),
		))
	defer span.End()

	var seq, epoch uint64
	d.Write(func() {
		seq = d.Status.Begin(op.Name)
		epoch = d.epoch
	})
	span.SetAttributes(attribute.Int64("dispatch.seq", int64(seq)))
	start := time.Now()

	result, err := invoke(ctx, d, op, call)
	recordDuration(d.Scope, op.Kind, time.Since(start))

	if err != nil {
		msg := d.message(op, err)
		if d.Status.Fail(op.Name, seq, msg) {
			recordOutcome(d.Scope, op.Name, outcomeRejected)
		} else {
			recordOutcome(d.Scope, op.Name, outcomeStale)
		}
		d.Logger.Warn("operation rejected",
			slog.String("op", string(op.Name)),
			slog.Uint64("seq", seq),
			slog.String("message", msg),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		var zero R
		return zero, &RejectedError{Op: op.Name, Message: msg, Err: err}
	}

	var applied, latest bool
	d.Write(func() {
		latest = d.Status.IsLatest(op.Name, seq)
		switch op.Kind {
		case Fetch:
			if !latest {
				return
			}
			if d.epoch != epoch {
				// The snapshot predates a committed write: settle the status but
				// keep the store and leave the fetch record unstamped.
				d.Status.Succeed(op.Name, seq, op.SuccessMessage)
				return
			}
			if apply != nil {
				apply(result)
			}
			d.Gate.Stamp(op.Keys...)
			applied = true
		case Mutation:
			if apply != nil {
				apply(result)
			}
			d.Gate.Reset()
			d.epoch++
			recordInvalidation(d.Scope)
			applied = true
		}
		if latest {
			d.Status.Succeed(op.Name, seq, op.SuccessMessage)
		}
	})

	if !applied || !latest {
		recordOutcome(d.Scope, op.Name, outcomeStale)
		d.Logger.Debug("stale completion",
			slog.String("op", string(op.Name)),
			slog.Uint64("seq", seq),
			slog.Bool("applied", applied))
		span.SetAttributes(attribute.Bool("dispatch.stale", true))
		return result, nil
	}
	recordOutcome(d.Scope, op.Name, outcomeFulfilled)
	return result, nil
}

// Epoch returns the number of mutations applied so far.
func (d *Dispatcher) Epoch() uint64 {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.epoch
}

// invoke runs call and turns a panic into an error so a broken backend adapter
// cannot leave the operation pending.
func invoke[R any](ctx context.Context, d *Dispatcher, op Operation, call func(context.Context) (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.Logger.Error("panic in operation",
				slog.String("op", string(op.Name)),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			var zero R
			result, err = zero, fmt.Errorf("%s: panic: %v", op.Name, r)
		}
	}()
	return call(ctx)
}

// message picks the status text for a failure. Internal error text is only shown
// when the operation declares no fallback.
func (d *Dispatcher) message(op Operation, err error) string {
	if op.Message != nil {
		if m := op.Message(err); m != "" {
			return m
		}
	}
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, entity.ErrNotFound) && op.NotFoundMessage != "":
		return op.NotFoundMessage
	case errors.Is(err, entity.ErrUnauthorized):
		return "No autorizado"
	case op.FailureMessage != "":
		return op.FailureMessage
	}
	return err.Error()
}
