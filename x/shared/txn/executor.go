package txn

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store/cachekv"
	"cosmossdk.io/store/dbadapter"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Clock supplies the timestamp an operation observes as "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Executor runs state-changing operations one at a time. Each operation
// sees a private branch of the store; the branch is written back only
// when the operation returns nil, so a failed or panicking operation
// leaves no trace.
type Executor struct {
	mu     sync.RWMutex
	db     dbm.DB
	root   storetypes.KVStore
	logger log.Logger
	clock  Clock
	tracer trace.Tracer

	recordEvents bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithClock overrides the clock. Tests use a manual clock.
func WithClock(clock Clock) Option {
	return func(e *Executor) { e.clock = clock }
}

// WithEventLog enables or disables persisting committed events.
func WithEventLog(enabled bool) Option {
	return func(e *Executor) { e.recordEvents = enabled }
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Executor) { e.tracer = tracer }
}

// NewExecutor creates an executor over db.
func NewExecutor(db dbm.DB, logger log.Logger, opts ...Option) *Executor {
	e := &Executor{
		db:           db,
		root:         dbadapter.Store{DB: db},
		logger:       logger.With(log.ModuleKey, "txn"),
		clock:        SystemClock{},
		tracer:       otel.Tracer("github.com/paw-chain/zkmarket/x/shared/txn"),
		recordEvents: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the executor clock reading.
func (e *Executor) Now() time.Time { return e.clock.Now() }

// Execute runs fn as a single atomic operation on behalf of caller and
// returns the events it emitted. Calling Execute with a context that is
// already inside an operation fails with ErrReentrantCall.
func (e *Executor) Execute(ctx context.Context, caller sdk.AccAddress, operation string, fn func(Context) error) (sdk.Events, error) {
	if _, err := FromContext(ctx); err == nil {
		return nil, ErrReentrantCall.Wrapf("%s invoked from inside another operation", operation)
	}

	ctx, span := e.tracer.Start(ctx, operation, trace.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("caller", caller.String()),
	))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	branch := cachekv.NewStore(e.root)
	tctx := e.newContext(ctx, branch, operation, caller, false)

	if err := e.run(tctx, fn); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		tctx.Logger().Debug("operation rolled back", "error", err)
		return nil, err
	}

	events := tctx.EventManager().Events()
	if e.recordEvents && len(events) > 0 {
		if err := appendEventRecords(branch, operation, tctx.BlockTime(), events); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to persist events: %w", err)
		}
	}

	branch.Write()
	span.SetAttributes(attribute.Int("events", len(events)))
	return events, nil
}

// Query runs fn against a read-only view. Writes made by fn are discarded.
func (e *Executor) Query(ctx context.Context, fn func(Context) error) error {
	if _, err := FromContext(ctx); err == nil {
		return ErrReentrantCall.Wrap("query invoked from inside another operation")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	branch := cachekv.NewStore(e.root)
	return e.run(e.newContext(ctx, branch, "query", nil, true), fn)
}

// Close closes the underlying database.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.Close()
}

func (e *Executor) newContext(ctx context.Context, store storetypes.KVStore, operation string, caller sdk.AccAddress, readOnly bool) Context {
	return Context{
		baseCtx: ctx,
		frame: &frame{
			operation: operation,
			store:     store,
			events:    sdk.NewEventManager(),
			guards:    make(map[string]struct{}),
			readOnly:  readOnly,
		},
		caller: caller,
		now:    e.clock.Now(),
		logger: e.logger.With("operation", operation),
	}
}

// run executes fn and converts a panic into ErrOperationPanicked.
func (e *Executor) run(ctx Context, fn func(Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Logger().Error("recovered from panic in operation",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = ErrOperationPanicked.Wrapf("%s: %v", ctx.Operation(), r)
		}
	}()
	return fn(ctx)
}
